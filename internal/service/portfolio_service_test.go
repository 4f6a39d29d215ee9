package service

import (
	"context"
	"errors"
	"testing"

	"github.com/harishas/autofolio/internal/domain"
)

func newPortfolioFixture() (*PortfolioService, *memResourceRepo, *memAccountRepo) {
	items := newMemResourceRepo()
	accounts := newMemAccountRepo()
	return NewPortfolioService(items, accounts, nil), items, accounts
}

func mustAccount(t *testing.T, accounts *memAccountRepo, email, subdomain string) *domain.Account {
	t.Helper()
	a := &domain.Account{Email: email, Subdomain: subdomain}
	if err := accounts.Create(context.Background(), a); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func TestSaveInsertForcesOwner(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	owner := mustAccount(t, accounts, "a@x.dev", "a")

	item, err := svc.Save(context.Background(), owner, "skills", 0, domain.Fields{
		"title":      "Go",
		"account_id": int64(999),
		"id":         int64(123),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if item.AccountID != owner.ID {
		t.Errorf("AccountID = %d, want %d", item.AccountID, owner.ID)
	}
	if item.ID == 123 {
		t.Error("caller-supplied id must not survive insert")
	}
	if item.Title != "Go" {
		t.Errorf("Title = %q", item.Title)
	}
}

func TestSaveRejectsUnknownKind(t *testing.T) {
	svc, items, accounts := newPortfolioFixture()
	owner := mustAccount(t, accounts, "a@x.dev", "a")

	_, err := svc.Save(context.Background(), owner, "accounts", 0, domain.Fields{"title": "x"})
	if !errors.Is(err, domain.ErrInvalidResource) {
		t.Fatalf("err = %v, want ErrInvalidResource", err)
	}
	for _, kind := range domain.Kinds() {
		if len(items.items[kind]) != 0 {
			t.Error("invalid kind must not reach storage")
		}
	}
}

func TestSaveUpdateIsPartial(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	owner := mustAccount(t, accounts, "a@x.dev", "a")

	created, err := svc.Save(context.Background(), owner, "projects", 0, domain.Fields{
		"title":       "Site",
		"description": "v1",
		"is_visible":  true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated, err := svc.Save(context.Background(), owner, "projects", created.ID, domain.Fields{
		"description": "v2",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "v2" {
		t.Errorf("Description = %q", updated.Description)
	}
	if updated.Title != "Site" || !updated.Visible {
		t.Error("untouched fields must survive a partial update")
	}
}

func TestUpdateForeignItemIsNotFound(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	alice := mustAccount(t, accounts, "alice@x.dev", "alice")
	bob := mustAccount(t, accounts, "bob@x.dev", "bob")

	item, err := svc.Save(context.Background(), alice, "skills", 0, domain.Fields{"title": "Go"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = svc.Save(context.Background(), bob, "skills", item.ID, domain.Fields{"title": "Stolen"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	got, err := svc.Save(context.Background(), alice, "skills", item.ID, domain.Fields{})
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if got.Title != "Go" {
		t.Errorf("Title = %q, foreign update must not land", got.Title)
	}
}

func TestDeleteForeignItemIsSilentNoop(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	alice := mustAccount(t, accounts, "alice@x.dev", "alice")
	bob := mustAccount(t, accounts, "bob@x.dev", "bob")

	item, err := svc.Save(context.Background(), alice, "skills", 0, domain.Fields{"title": "Go"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := svc.Delete(context.Background(), bob, "skills", item.ID); err != nil {
		t.Fatalf("foreign delete should be silent, got %v", err)
	}
	if err := svc.Delete(context.Background(), bob, "skills", 9999); err != nil {
		t.Fatalf("missing delete should be silent, got %v", err)
	}

	list, err := svc.List(context.Background(), alice, "skills")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("alice's item must survive bob's delete, have %d items", len(list))
	}
}

func TestListIsOwnershipScoped(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	alice := mustAccount(t, accounts, "alice@x.dev", "alice")
	bob := mustAccount(t, accounts, "bob@x.dev", "bob")

	for _, owner := range []*domain.Account{alice, bob} {
		if _, err := svc.Save(context.Background(), owner, "skills", 0, domain.Fields{"title": owner.Subdomain}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	list, err := svc.List(context.Background(), alice, "skills")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "alice" {
		t.Errorf("alice sees %d items, want only her own", len(list))
	}
}

func TestReorderPersistsSubmittedOrder(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	owner := mustAccount(t, accounts, "a@x.dev", "a")

	var ids []int64
	for _, title := range []string{"first", "second", "third"} {
		item, err := svc.Save(context.Background(), owner, "projects", 0, domain.Fields{"title": title})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, item.ID)
	}

	// Reverse the display order.
	if err := svc.Reorder(context.Background(), owner, "projects", []int64{ids[2], ids[1], ids[0]}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	list, err := svc.List(context.Background(), owner, "projects")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"third", "second", "first"}
	for i, item := range list {
		if item.Title != want[i] {
			t.Errorf("position %d = %q, want %q", i, item.Title, want[i])
		}
		if item.DisplayOrder != i+1 {
			t.Errorf("position %d has display_order %d, want %d", i, item.DisplayOrder, i+1)
		}
	}
}

func TestReorderIgnoresForeignIDs(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	alice := mustAccount(t, accounts, "alice@x.dev", "alice")
	bob := mustAccount(t, accounts, "bob@x.dev", "bob")

	bobItem, err := svc.Save(context.Background(), bob, "projects", 0, domain.Fields{
		"title":         "bobs",
		"display_order": 7,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := svc.Reorder(context.Background(), alice, "projects", []int64{bobItem.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	got, err := svc.Save(context.Background(), bob, "projects", bobItem.ID, domain.Fields{})
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if got.DisplayOrder != 7 {
		t.Errorf("display_order = %d, alice's reorder must not touch bob's items", got.DisplayOrder)
	}
}

func TestPublicListFiltersHiddenItems(t *testing.T) {
	svc, _, accounts := newPortfolioFixture()
	owner := mustAccount(t, accounts, "a@x.dev", "a")

	if _, err := svc.Save(context.Background(), owner, "skills", 0, domain.Fields{"title": "shown", "is_visible": true}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(context.Background(), owner, "skills", 0, domain.Fields{"title": "hidden", "is_visible": false}); err != nil {
		t.Fatal(err)
	}

	public, err := svc.PublicList(context.Background(), "a", "skills")
	if err != nil {
		t.Fatalf("public list: %v", err)
	}
	if len(public) != 1 || public[0].Title != "shown" {
		t.Errorf("public projection leaked hidden items: %d returned", len(public))
	}

	all, err := svc.List(context.Background(), owner, "skills")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("owner view must include hidden items, got %d", len(all))
	}
}

func TestPublicListUnknownSubdomain(t *testing.T) {
	svc, _, _ := newPortfolioFixture()

	_, err := svc.PublicList(context.Background(), "nobody", "skills")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// Kind validation comes before tenant resolution.
	_, err = svc.PublicList(context.Background(), "nobody", "not-a-kind")
	if !errors.Is(err, domain.ErrInvalidResource) {
		t.Fatalf("err = %v, want ErrInvalidResource", err)
	}
}
