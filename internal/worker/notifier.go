package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/mailer"
	"github.com/harishas/autofolio/internal/observability/metrics"
	"github.com/harishas/autofolio/internal/reliability/retry"
)

// Notifier periodically delivers email notifications for contact messages
// that have not been sent to their portfolio owner yet.
type Notifier struct {
	messages domain.MessageRepository
	accounts domain.AccountRepository
	mail     mailer.Mailer
	logger   *slog.Logger
	interval time.Duration
	limiter  *rate.Limiter
	retryCfg *retry.Config
}

const notifyBatchSize = 50

// NewNotifier creates a notification worker.
func NewNotifier(
	messages domain.MessageRepository,
	accounts domain.AccountRepository,
	mail mailer.Mailer,
	logger *slog.Logger,
	interval time.Duration,
) *Notifier {
	return &Notifier{
		messages: messages,
		accounts: accounts,
		mail:     mail,
		logger:   logger,
		interval: interval,
		// Mailgun free tier tolerates short bursts but not sustained
		// firehoses; one message per second is plenty for contact mail.
		limiter:  rate.NewLimiter(rate.Every(time.Second), 5),
		retryCfg: retry.DefaultConfig(),
	}
}

// Start begins the notifier loop. It runs until the context is cancelled.
func (w *Notifier) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("notifier worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notifier worker stopped")
			return
		case <-ticker.C:
			w.deliverPending(ctx)
		}
	}
}

// deliverPending is the main delivery routine.
func (w *Notifier) deliverPending(ctx context.Context) {
	pending, err := w.messages.ListUnnotified(ctx, notifyBatchSize)
	if err != nil {
		w.logger.Error("failed to list pending notifications",
			slog.String("error", err.Error()),
		)
		return
	}
	metrics.SetPendingNotifications(len(pending))
	if len(pending) == 0 {
		return
	}

	w.logger.Info("delivering pending notifications", slog.Int("count", len(pending)))

	for _, msg := range pending {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		w.deliverOne(ctx, msg)
	}
}

// deliverOne sends a single notification email with retry and marks the
// message delivered. A message whose recipient no longer exists is marked
// notified anyway so it does not wedge the queue; a transient lookup
// failure leaves it pending for the next sweep.
func (w *Notifier) deliverOne(ctx context.Context, msg *domain.Message) {
	logger := w.logger.With(slog.Int64("message_id", msg.ID))

	owner, err := w.accounts.GetByID(ctx, msg.AccountID)
	if err != nil {
		logger.Error("failed to resolve message recipient",
			slog.Int64("account_id", msg.AccountID),
			slog.String("error", err.Error()),
		)
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveNotification("error")
			return
		}
		if markErr := w.messages.MarkNotified(ctx, msg.ID); markErr != nil {
			logger.Error("failed to mark orphaned message", slog.String("error", markErr.Error()))
		}
		metrics.ObserveNotification("skipped")
		return
	}

	subject := fmt.Sprintf("New Portfolio Message: %s", msg.Subject)
	body := fmt.Sprintf(
		"You have received a new message on your AutoFolio.\n\nFrom: %s (%s)\nSubject: %s\n\nMessage:\n%s",
		msg.Name, msg.Email, msg.Subject, msg.Body,
	)

	_, err = retry.Do(ctx, w.retryCfg, logger, "send notification email",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, w.mail.Send(ctx, owner.Email, subject, body)
		})
	if err != nil {
		logger.Error("notification delivery failed after retries", slog.String("error", err.Error()))
		metrics.ObserveNotification("error")
		return
	}

	if err := w.messages.MarkNotified(ctx, msg.ID); err != nil {
		logger.Error("failed to mark message notified", slog.String("error", err.Error()))
		return
	}
	logger.Info("notification delivered", slog.String("to", owner.Email))
	metrics.ObserveNotification("success")
}
