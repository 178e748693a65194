package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// LoginResult is what a successful login hands back to the HTTP layer: the
// session token destined for the cookie, a short-lived bearer token, and the
// resolved user.
type LoginResult struct {
	SessionID   string
	AccessToken string
	User        *domain.User
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}
