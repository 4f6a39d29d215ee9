package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/harishas/autofolio/internal/domain"
)

// PostgresAccountRepository implements domain.AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresAccountRepository creates a new account repository
func NewPostgresAccountRepository(db *sql.DB, logger *slog.Logger) *PostgresAccountRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAccountRepository{db: db, logger: logger}
}

// Create inserts a new account
func (r *PostgresAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (google_id, email, name, subdomain)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.GoogleID,
		account.Email,
		account.Name,
		account.Subdomain,
	).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create account",
			slog.String("email", account.Email),
			slog.String("error", err.Error()),
		)
		return domain.StorageError("create account", err)
	}

	return nil
}

// GetByID retrieves an account by primary key
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	a := &domain.Account{}
	var googleID, name sql.NullString

	query := `
		SELECT id, google_id, email, name, subdomain, created_at
		FROM accounts
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &googleID, &a.Email, &name, &a.Subdomain, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageError("get account", err)
	}
	a.GoogleID = googleID.String
	a.Name = name.String
	return a, nil
}

// GetByEmail retrieves an account by email
func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, "email", email)
}

// GetBySubdomain retrieves an account by its public tenant identifier
func (r *PostgresAccountRepository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Account, error) {
	return r.getBy(ctx, "subdomain", subdomain)
}

func (r *PostgresAccountRepository) getBy(ctx context.Context, column, value string) (*domain.Account, error) {
	a := &domain.Account{}
	var googleID, name sql.NullString

	// column is one of two call-site constants, never caller input
	query := `
		SELECT id, google_id, email, name, subdomain, created_at
		FROM accounts
		WHERE ` + column + ` = $1
	`

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&a.ID, &googleID, &a.Email, &name, &a.Subdomain, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageError("get account", err)
	}

	a.GoogleID = googleID.String
	a.Name = name.String
	return a, nil
}

// SubdomainTaken reports whether a subdomain is already assigned
func (r *PostgresAccountRepository) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE subdomain = $1)`
	if err := r.db.QueryRowContext(ctx, query, subdomain).Scan(&exists); err != nil {
		return false, domain.StorageError("check subdomain", err)
	}
	return exists, nil
}
