package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailer is the outbound e-mail collaborator. Any implementation can back
// the notifier worker; tests use an in-memory one.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// MailgunMailer sends mail through the Mailgun API.
type MailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
}

// NewMailgunMailer creates a Mailgun-backed mailer.
func NewMailgunMailer(domain, apiKey, from string) (*MailgunMailer, error) {
	if domain == "" || apiKey == "" {
		return nil, fmt.Errorf("mailgun domain and api key required")
	}
	return &MailgunMailer{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}, nil
}

// Send delivers a plain-text message.
func (m *MailgunMailer) Send(ctx context.Context, to, subject, text string) error {
	msg := m.mg.NewMessage(m.from, subject, text, to)
	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}
	return nil
}

// LogMailer logs instead of sending; used when no provider is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	if m.Logger != nil {
		m.Logger.Info("email suppressed (no mail provider configured)",
			slog.String("to", to),
			slog.String("subject", subject),
		)
	}
	return nil
}
