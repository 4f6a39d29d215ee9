package service

import (
	"context"
	"errors"
	"testing"

	"github.com/harishas/autofolio/internal/domain"
)

func TestContactSubmitResolvesTarget(t *testing.T) {
	accounts := newMemAccountRepo()
	messages := newMemMessageRepo()
	svc := NewContactService(accounts, messages, nil)
	owner := mustAccount(t, accounts, "h@x.dev", "harish")

	msg, err := svc.Submit(context.Background(), "harish", "Visitor", "v@y.dev", "Hi", "Nice site")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg.AccountID != owner.ID {
		t.Errorf("AccountID = %d, want %d", msg.AccountID, owner.ID)
	}
	if msg.Notified {
		t.Error("new messages start unnotified")
	}

	inbox, err := svc.ListMessages(context.Background(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(inbox) != 1 || inbox[0].Body != "Nice site" {
		t.Errorf("inbox = %+v", inbox)
	}
}

func TestContactSubmitUnknownTarget(t *testing.T) {
	svc := NewContactService(newMemAccountRepo(), newMemMessageRepo(), nil)

	_, err := svc.Submit(context.Background(), "ghost", "Visitor", "v@y.dev", "Hi", "hello")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestContactInboxIsOwnershipScoped(t *testing.T) {
	accounts := newMemAccountRepo()
	messages := newMemMessageRepo()
	svc := NewContactService(accounts, messages, nil)
	alice := mustAccount(t, accounts, "alice@x.dev", "alice")
	bob := mustAccount(t, accounts, "bob@x.dev", "bob")

	if _, err := svc.Submit(context.Background(), "alice", "V", "v@y.dev", "s", "for alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(context.Background(), "bob", "V", "v@y.dev", "s", "for bob"); err != nil {
		t.Fatal(err)
	}

	inbox, err := svc.ListMessages(context.Background(), alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 1 || inbox[0].Body != "for alice" {
		t.Errorf("alice's inbox = %+v", inbox)
	}

	inbox, err = svc.ListMessages(context.Background(), bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 1 || inbox[0].Body != "for bob" {
		t.Errorf("bob's inbox = %+v", inbox)
	}
}
