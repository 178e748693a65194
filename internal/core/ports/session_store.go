package ports

import "context"

// SessionStore maps opaque session tokens to user identifiers. All methods
// are safe for concurrent use.
type SessionStore interface {
	// Create generates a fresh token for userID and records the mapping.
	// Returns domain.ErrInvalidUserID when userID is empty.
	Create(ctx context.Context, userID string) (string, error)
	// Lookup resolves a token to its user ID. Unknown, empty, or expired
	// tokens yield domain.ErrSessionNotFound.
	Lookup(ctx context.Context, sessionID string) (string, error)
	// Destroy removes the mapping. The bool reports whether it existed.
	Destroy(ctx context.Context, sessionID string) (bool, error)
	// Close releases store resources at process shutdown.
	Close(ctx context.Context) error
}
