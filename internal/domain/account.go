package domain

import (
	"context"
	"time"
)

// Account is a registered portfolio owner. The subdomain is the public
// tenant identifier; it is unique and never changes after assignment.
type Account struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	GoogleID  string    `json:"google_id,omitempty"`
	Subdomain string    `json:"subdomain"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountRepository defines data access for accounts
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Account, error)
	SubdomainTaken(ctx context.Context, subdomain string) (bool, error)
}
