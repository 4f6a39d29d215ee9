package domain

import (
	"context"
	"time"
)

// Message is an inbound contact-form submission addressed to an account.
// Messages are written once by the contact endpoint and read-only from the
// dashboard; they only disappear through the owner cascade.
type Message struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"is_read"`
	Notified  bool      `json:"-"`
}

// MessageRepository defines data access for contact messages. ListUnnotified
// and MarkNotified back the outbound-notification worker.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	ListByAccount(ctx context.Context, accountID int64) ([]*Message, error)
	ListUnnotified(ctx context.Context, limit int) ([]*Message, error)
	MarkNotified(ctx context.Context, id int64) error
}
