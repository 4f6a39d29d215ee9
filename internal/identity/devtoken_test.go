package identity

import (
	"context"
	"testing"
	"time"
)

func TestDevTokenRoundTrip(t *testing.T) {
	v := NewDevVerifier("test-secret")

	token, err := v.MintToken("sub-1", "alice@example.com", "Alice", time.Minute)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if id.Email != "alice@example.com" || id.Subject != "sub-1" || id.Name != "Alice" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestDevTokenExpired(t *testing.T) {
	v := NewDevVerifier("test-secret")
	token, err := v.MintToken("sub-1", "alice@example.com", "Alice", -time.Minute)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestDevTokenWrongSecret(t *testing.T) {
	minter := NewDevVerifier("secret-a")
	verifier := NewDevVerifier("secret-b")

	token, err := minter.MintToken("sub-1", "alice@example.com", "Alice", time.Minute)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}

func TestExtractToken(t *testing.T) {
	if _, err := ExtractToken(""); err == nil {
		t.Fatalf("expected error for empty header")
	}
	if _, err := ExtractToken("Basic abc"); err == nil {
		t.Fatalf("expected error for non-bearer header")
	}
	tok, err := ExtractToken("Bearer abc123")
	if err != nil || tok != "abc123" {
		t.Fatalf("expected abc123, got %q err %v", tok, err)
	}
}
