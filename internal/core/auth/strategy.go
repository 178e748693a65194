package auth

import (
	"context"
	"net/http"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// Strategy resolves a request's credentials to a user identity. A nil user
// with a nil error means the credentials did not resolve (invalid password,
// stale session, unknown account); a non-nil error means the lookup itself
// failed and the request should surface an internal error, not a 403.
type Strategy interface {
	Identify(ctx context.Context, r *http.Request) (*domain.User, error)
}
