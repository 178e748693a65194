package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// BasicStrategy authenticates HTTP Basic credentials: a base64-encoded
// "email:password" pair checked against the stored bcrypt digest.
type BasicStrategy struct {
	users  ports.UserRepository
	hasher *Hasher
}

func NewBasicStrategy(users ports.UserRepository, hasher *Hasher) *BasicStrategy {
	return &BasicStrategy{users: users, hasher: hasher}
}

func (s *BasicStrategy) Identify(ctx context.Context, r *http.Request) (*domain.User, error) {
	decoded := DecodeBasicToken(ExtractBasicToken(AuthorizationHeader(r)))
	email, password, ok := SplitBasicCredentials(decoded)
	if !ok || email == "" {
		return nil, nil
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}
