package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// BearerStrategy authenticates "Authorization: Bearer <jwt>" headers using
// the tokens minted by TokenIssuer at login.
type BearerStrategy struct {
	users  userByID
	issuer *TokenIssuer
}

// userByID is the slice of the user repository bearer auth actually needs.
type userByID interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

func NewBearerStrategy(users userByID, issuer *TokenIssuer) *BearerStrategy {
	return &BearerStrategy{users: users, issuer: issuer}
}

func (s *BearerStrategy) Identify(ctx context.Context, r *http.Request) (*domain.User, error) {
	header := AuthorizationHeader(r)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, nil
	}

	userID, err := s.issuer.Verify(parts[1])
	if err != nil {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
