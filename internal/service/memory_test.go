package service

import (
	"context"
	"sort"

	"github.com/harishas/autofolio/internal/domain"
)

// In-memory repositories for service tests.

type memAccountRepo struct {
	nextID   int64
	accounts []*domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{}
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.nextID++
	account.ID = r.nextID
	r.accounts = append(r.accounts, account)
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccountRepo) GetBySubdomain(_ context.Context, subdomain string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Subdomain == subdomain {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccountRepo) SubdomainTaken(_ context.Context, subdomain string) (bool, error) {
	_, err := r.GetBySubdomain(context.Background(), subdomain)
	return err == nil, nil
}

type memResourceRepo struct {
	nextID int64
	items  map[domain.Kind][]*domain.Item
}

func newMemResourceRepo() *memResourceRepo {
	return &memResourceRepo{items: make(map[domain.Kind][]*domain.Item)}
}

func applyFields(it *domain.Item, fields domain.Fields) {
	for name, v := range fields {
		switch dest := it.ScanDest(name).(type) {
		case *string:
			dest2, _ := v.(string)
			*dest = dest2
		case *bool:
			b, _ := v.(bool)
			*dest = b
		case *int:
			n, _ := v.(int)
			*dest = n
		}
	}
}

func (r *memResourceRepo) List(_ context.Context, kind domain.Kind, accountID int64) ([]*domain.Item, error) {
	return r.list(kind, accountID, false), nil
}

func (r *memResourceRepo) ListVisible(_ context.Context, kind domain.Kind, accountID int64) ([]*domain.Item, error) {
	return r.list(kind, accountID, true), nil
}

func (r *memResourceRepo) list(kind domain.Kind, accountID int64, visibleOnly bool) []*domain.Item {
	var out []*domain.Item
	for _, it := range r.items[kind] {
		if it.AccountID != accountID {
			continue
		}
		if visibleOnly && !it.Visible {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memResourceRepo) Get(_ context.Context, kind domain.Kind, accountID, id int64) (*domain.Item, error) {
	for _, it := range r.items[kind] {
		if it.ID == id && it.AccountID == accountID {
			return it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memResourceRepo) Insert(_ context.Context, kind domain.Kind, accountID int64, fields domain.Fields) (int64, error) {
	r.nextID++
	it := &domain.Item{ID: r.nextID, AccountID: accountID}
	applyFields(it, fields)
	r.items[kind] = append(r.items[kind], it)
	return it.ID, nil
}

func (r *memResourceRepo) Update(ctx context.Context, kind domain.Kind, accountID, id int64, fields domain.Fields) error {
	it, err := r.Get(ctx, kind, accountID, id)
	if err != nil {
		return err
	}
	applyFields(it, fields)
	return nil
}

func (r *memResourceRepo) Delete(_ context.Context, kind domain.Kind, accountID, id int64) error {
	items := r.items[kind]
	for i, it := range items {
		if it.ID == id && it.AccountID == accountID {
			r.items[kind] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memResourceRepo) Reorder(ctx context.Context, kind domain.Kind, accountID int64, orderedIDs []int64) error {
	for i, id := range orderedIDs {
		if it, err := r.Get(ctx, kind, accountID, id); err == nil {
			it.DisplayOrder = i + 1
		}
	}
	return nil
}

type memMessageRepo struct {
	nextID   int64
	messages []*domain.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{}
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.nextID++
	msg.ID = r.nextID
	r.messages = append(r.messages, msg)
	return nil
}

func (r *memMessageRepo) ListByAccount(_ context.Context, accountID int64) ([]*domain.Message, error) {
	var out []*domain.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].AccountID == accountID {
			out = append(out, r.messages[i])
		}
	}
	return out, nil
}

func (r *memMessageRepo) ListUnnotified(_ context.Context, limit int) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.messages {
		if !m.Notified {
			out = append(out, m)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memMessageRepo) MarkNotified(_ context.Context, id int64) error {
	for _, m := range r.messages {
		if m.ID == id {
			m.Notified = true
			return nil
		}
	}
	return domain.ErrNotFound
}
