package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and handlers. Handlers translate these
// to HTTP status classes; nothing below the handler layer retries them.
var (
	// ErrUnauthorized covers missing, invalid, and unregistered credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidResource is returned when a resource kind is outside the
	// fixed whitelist. Always a caller bug.
	ErrInvalidResource = errors.New("invalid resource kind")

	// ErrNotFound is returned for unknown subdomains and for
	// ownership-scoped writes that matched zero rows.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps persistence failures. The underlying error is kept
	// for logs but never exposed to clients.
	ErrStorage = errors.New("storage error")
)

// StorageError wraps err so that errors.Is(err, ErrStorage) holds.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
