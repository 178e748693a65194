package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Not-found conditions are reported as domain.ErrUserNotFound, never as a
// driver error; a duplicate email on Create is domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)

	// UpdateSessionID records the user's live session token; an empty value
	// clears it (logout).
	UpdateSessionID(ctx context.Context, id, sessionID string) error
	// UpdateResetToken records a pending password-reset token; an empty value
	// clears it (reset completed).
	UpdateResetToken(ctx context.Context, id, token string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
