package identity

import (
	"context"
	"fmt"
	"strings"
)

// Identity is the result of a successful credential verification against
// the external identity oracle.
type Identity struct {
	Subject string // stable external subject id
	Email   string
	Name    string
}

// Verifier validates a raw bearer credential. Implementations must treat
// timeouts as verification failures; the caller supplies the deadline.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ExtractToken pulls the bearer token out of an Authorization header.
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
