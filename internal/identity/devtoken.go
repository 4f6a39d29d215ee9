package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevClaims are the claims carried by locally-issued development tokens.
type DevClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// DevVerifier is an HS256 stand-in for the external identity oracle, used
// in development and tests. Tokens are minted by MintToken (exposed through
// the CLI) and verified locally.
type DevVerifier struct {
	secret string
	issuer string
}

func NewDevVerifier(secret string) *DevVerifier {
	if secret == "" {
		secret = "change-me-in-production"
	}
	return &DevVerifier{secret: secret, issuer: "autofolio-dev"}
}

// MintToken issues a development token for the given identity.
func (v *DevVerifier) MintToken(subject, email, name string, expiresIn time.Duration) (string, error) {
	if subject == "" || email == "" {
		return "", fmt.Errorf("subject and email required")
	}
	now := time.Now()
	claims := DevClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			Issuer:    v.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.secret))
}

// Verify implements Verifier.
func (v *DevVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DevClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	claims, ok := token.Claims.(*DevClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("token missing email claim")
	}
	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
