package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/harishas/autofolio/internal/domain"
)

type fakeMessageRepo struct {
	pending  []*domain.Message
	notified []int64
}

func (r *fakeMessageRepo) Create(context.Context, *domain.Message) error { return nil }

func (r *fakeMessageRepo) ListByAccount(context.Context, int64) ([]*domain.Message, error) {
	return nil, nil
}

func (r *fakeMessageRepo) ListUnnotified(_ context.Context, limit int) ([]*domain.Message, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeMessageRepo) MarkNotified(_ context.Context, id int64) error {
	r.notified = append(r.notified, id)
	return nil
}

type fakeAccountRepo struct {
	account *domain.Account
	err     error
}

func (r *fakeAccountRepo) Create(context.Context, *domain.Account) error { return nil }

func (r *fakeAccountRepo) GetByID(context.Context, int64) (*domain.Account, error) {
	return r.account, r.err
}

func (r *fakeAccountRepo) GetByEmail(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeAccountRepo) GetBySubdomain(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeAccountRepo) SubdomainTaken(context.Context, string) (bool, error) {
	return false, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func newTestNotifier(messages *fakeMessageRepo, accounts *fakeAccountRepo, mail *fakeMailer) *Notifier {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNotifier(messages, accounts, mail, log, time.Minute)
}

func pendingMessage(id, accountID int64) *domain.Message {
	return &domain.Message{
		ID:        id,
		AccountID: accountID,
		Name:      "Visitor",
		Email:     "v@y.dev",
		Subject:   "Hello",
		Body:      "Great portfolio",
	}
}

func TestDeliverSendsAndMarksNotified(t *testing.T) {
	messages := &fakeMessageRepo{pending: []*domain.Message{pendingMessage(1, 7)}}
	accounts := &fakeAccountRepo{account: &domain.Account{ID: 7, Email: "owner@x.dev"}}
	mail := &fakeMailer{}

	newTestNotifier(messages, accounts, mail).deliverPending(context.Background())

	if len(mail.sent) != 1 || mail.sent[0] != "owner@x.dev" {
		t.Errorf("sent = %v, want one mail to owner@x.dev", mail.sent)
	}
	if len(messages.notified) != 1 || messages.notified[0] != 1 {
		t.Errorf("notified = %v, want [1]", messages.notified)
	}
}

func TestTransientLookupFailureLeavesMessagePending(t *testing.T) {
	messages := &fakeMessageRepo{pending: []*domain.Message{pendingMessage(1, 7)}}
	accounts := &fakeAccountRepo{err: domain.StorageError("get account", context.DeadlineExceeded)}
	mail := &fakeMailer{}

	newTestNotifier(messages, accounts, mail).deliverPending(context.Background())

	if len(mail.sent) != 0 {
		t.Errorf("sent = %v, want no mail while the recipient is unresolved", mail.sent)
	}
	if len(messages.notified) != 0 {
		t.Errorf("notified = %v, a transient lookup failure must not consume the message", messages.notified)
	}
}

func TestDeletedRecipientSkipsMessage(t *testing.T) {
	messages := &fakeMessageRepo{pending: []*domain.Message{pendingMessage(1, 7)}}
	accounts := &fakeAccountRepo{err: domain.ErrNotFound}
	mail := &fakeMailer{}

	newTestNotifier(messages, accounts, mail).deliverPending(context.Background())

	if len(mail.sent) != 0 {
		t.Errorf("sent = %v, want no mail for a deleted recipient", mail.sent)
	}
	if len(messages.notified) != 1 || messages.notified[0] != 1 {
		t.Errorf("notified = %v, orphaned messages must not wedge the queue", messages.notified)
	}
}
