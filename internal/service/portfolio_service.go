package service

import (
	"context"
	"log/slog"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/observability/metrics"
)

// PortfolioService is the ownership-scoped CRUD and reorder engine over the
// five resource kinds, plus the credential-free public projection.
type PortfolioService struct {
	items    domain.ResourceRepository
	accounts domain.AccountRepository
	logger   *slog.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	items domain.ResourceRepository,
	accounts domain.AccountRepository,
	logger *slog.Logger,
) *PortfolioService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioService{items: items, accounts: accounts, logger: logger}
}

// List returns all of the owner's items for a kind, ordered for display.
func (s *PortfolioService) List(ctx context.Context, owner *domain.Account, kindStr string) ([]*domain.Item, error) {
	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		return nil, err
	}
	return s.items.List(ctx, kind, owner.ID)
}

// Save upserts an item. With id == 0 it inserts, forcing the owner
// reference to the caller regardless of the payload; otherwise it partially
// updates the supplied fields scoped by id and owner. Either way the
// payload passes the per-kind schema whitelist first, so unknown keys and
// id/owner tampering are stripped before any statement is built.
func (s *PortfolioService) Save(ctx context.Context, owner *domain.Account, kindStr string, id int64, fields domain.Fields) (*domain.Item, error) {
	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		metrics.ObserveSave(kindStr, "invalid")
		return nil, err
	}

	clean := domain.SanitizeFields(kind, fields)

	if id != 0 {
		if err := s.items.Update(ctx, kind, owner.ID, id, clean); err != nil {
			metrics.ObserveSave(kind.String(), "error")
			return nil, err
		}
	} else {
		newID, err := s.items.Insert(ctx, kind, owner.ID, clean)
		if err != nil {
			metrics.ObserveSave(kind.String(), "error")
			return nil, err
		}
		id = newID
	}

	item, err := s.items.Get(ctx, kind, owner.ID, id)
	if err != nil {
		return nil, err
	}

	metrics.ObserveSave(kind.String(), "ok")
	s.logger.Debug("item saved",
		slog.String("kind", kind.String()),
		slog.Int64("account_id", owner.ID),
		slog.Int64("id", item.ID),
	)
	return item, nil
}

// Delete removes an item scoped by id and owner. Missing and foreign ids
// are silent no-ops.
func (s *PortfolioService) Delete(ctx context.Context, owner *domain.Account, kindStr string, id int64) error {
	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		return err
	}
	return s.items.Delete(ctx, kind, owner.ID, id)
}

// Reorder resequences the owner's items so a following List returns them in
// exactly the submitted order. Foreign ids update nothing; omitted items
// survive with their old order values.
func (s *PortfolioService) Reorder(ctx context.Context, owner *domain.Account, kindStr string, orderedIDs []int64) error {
	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		metrics.ObserveReorder(kindStr, "invalid")
		return err
	}
	if err := s.items.Reorder(ctx, kind, owner.ID, orderedIDs); err != nil {
		metrics.ObserveReorder(kind.String(), "error")
		return err
	}
	metrics.ObserveReorder(kind.String(), "ok")
	return nil
}

// PublicList is the read-only projection for a public tenant identifier:
// visible items only, ordered for display, no credential.
func (s *PortfolioService) PublicList(ctx context.Context, subdomain, kindStr string) ([]*domain.Item, error) {
	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	metrics.ObservePublicView(kind.String())
	return s.items.ListVisible(ctx, kind, account.ID)
}
