package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harishas/autofolio/internal/domain"
)

// ContactService stores visitor messages addressed to a portfolio owner.
// Outbound e-mail notification is handled asynchronously by the notifier
// worker, so a slow mail provider never blocks the visitor.
type ContactService struct {
	accounts domain.AccountRepository
	messages domain.MessageRepository
	logger   *slog.Logger
}

// NewContactService creates a new contact service
func NewContactService(
	accounts domain.AccountRepository,
	messages domain.MessageRepository,
	logger *slog.Logger,
) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{accounts: accounts, messages: messages, logger: logger}
}

// Submit resolves the target subdomain and stores the message. Fails with
// domain.ErrNotFound for an unknown recipient.
func (s *ContactService) Submit(ctx context.Context, targetSubdomain, name, email, subject, body string) (*domain.Message, error) {
	account, err := s.accounts.GetBySubdomain(ctx, strings.TrimSpace(targetSubdomain))
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		AccountID: account.ID,
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Info("contact message stored",
		slog.Int64("account_id", account.ID),
		slog.Int64("message_id", msg.ID),
	)
	return msg, nil
}

// ListMessages returns the owner's inbox, newest first.
func (s *ContactService) ListMessages(ctx context.Context, owner *domain.Account) ([]*domain.Message, error) {
	return s.messages.ListByAccount(ctx, owner.ID)
}
