package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/harishas/autofolio/internal/domain"
)

// PostgresMessageRepository implements domain.MessageRepository using PostgreSQL
type PostgresMessageRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresMessageRepository creates a new message repository
func NewPostgresMessageRepository(db *sql.DB, logger *slog.Logger) *PostgresMessageRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMessageRepository{db: db, logger: logger}
}

// Create stores an inbound contact message
func (r *PostgresMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (account_id, name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		msg.AccountID, msg.Name, msg.Email, msg.Subject, msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create message",
			slog.Int64("account_id", msg.AccountID),
			slog.String("error", err.Error()),
		)
		return domain.StorageError("create message", err)
	}
	return nil
}

// ListByAccount returns an account's messages, newest first
func (r *PostgresMessageRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Message, error) {
	query := `
		SELECT id, account_id, COALESCE(name, ''), COALESCE(email, ''),
		       COALESCE(subject, ''), COALESCE(message, ''), created_at,
		       COALESCE(is_read, FALSE), COALESCE(notified, FALSE)
		FROM messages
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	return r.queryMessages(ctx, query, accountID)
}

// ListUnnotified returns messages the notifier has not yet mailed out,
// oldest first, bounded by limit.
func (r *PostgresMessageRepository) ListUnnotified(ctx context.Context, limit int) ([]*domain.Message, error) {
	query := `
		SELECT id, account_id, COALESCE(name, ''), COALESCE(email, ''),
		       COALESCE(subject, ''), COALESCE(message, ''), created_at,
		       COALESCE(is_read, FALSE), COALESCE(notified, FALSE)
		FROM messages
		WHERE COALESCE(notified, FALSE) = FALSE
		ORDER BY created_at ASC
		LIMIT $1
	`
	return r.queryMessages(ctx, query, limit)
}

func (r *PostgresMessageRepository) queryMessages(ctx context.Context, query string, arg any) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, domain.StorageError("list messages", err)
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		m := &domain.Message{}
		err := rows.Scan(
			&m.ID, &m.AccountID, &m.Name, &m.Email,
			&m.Subject, &m.Body, &m.CreatedAt, &m.Read, &m.Notified,
		)
		if err != nil {
			return nil, domain.StorageError("scan message", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MarkNotified flags a message as mailed out
func (r *PostgresMessageRepository) MarkNotified(ctx context.Context, id int64) error {
	query := `UPDATE messages SET notified = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return domain.StorageError("mark notified", err)
	}
	return nil
}
