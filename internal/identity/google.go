package identity

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates Google-issued ID tokens against a fixed OAuth
// client id (audience).
type GoogleVerifier struct {
	audience string
}

// NewGoogleVerifier creates a verifier for the given OAuth client id.
func NewGoogleVerifier(clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google client id required")
	}
	return &GoogleVerifier{audience: clientID}, nil
}

// Verify validates the token signature, expiry and audience, and extracts
// the subject, email and display name claims.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("id token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("id token missing email claim")
	}
	name, _ := payload.Claims["name"].(string)

	return &Identity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}
