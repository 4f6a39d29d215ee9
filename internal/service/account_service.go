package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/identity"
)

// AccountService handles account lookup and the login/upsert flow, the only
// path that creates accounts.
type AccountService struct {
	accounts domain.AccountRepository
	logger   *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accounts domain.AccountRepository, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{accounts: accounts, logger: logger}
}

// LoginOrRegister resolves a verified external identity to an account,
// creating one on first login. The subdomain is derived from the e-mail
// local part; collisions get a random numeric suffix. Subdomains are
// immutable after assignment.
func (s *AccountService) LoginOrRegister(ctx context.Context, id *identity.Identity) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, id.Email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	subdomain := DeriveSubdomain(id.Email)
	taken, err := s.accounts.SubdomainTaken(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if taken {
		subdomain = fmt.Sprintf("%s%d", subdomain, rand.Intn(1000))
	}

	account = &domain.Account{
		Email:     id.Email,
		Name:      id.Name,
		GoogleID:  id.Subject,
		Subdomain: subdomain,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		slog.Int64("account_id", account.ID),
		slog.String("email", account.Email),
		slog.String("subdomain", account.Subdomain),
	)
	return account, nil
}

// ResolveSubdomain maps a public tenant identifier to its account.
func (s *AccountService) ResolveSubdomain(ctx context.Context, subdomain string) (*domain.Account, error) {
	return s.accounts.GetBySubdomain(ctx, subdomain)
}

// DeriveSubdomain lowercases the e-mail local part and strips everything
// outside [a-z0-9].
func DeriveSubdomain(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
