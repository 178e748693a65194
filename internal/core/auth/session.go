package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// SessionStrategy authenticates via the session cookie: the cookie value is
// resolved through the session store, then the owning user is fetched. A
// session whose user has since been deleted is treated as no identity, not
// as an error.
type SessionStrategy struct {
	sessions   ports.SessionStore
	users      ports.UserRepository
	cookieName string
}

func NewSessionStrategy(sessions ports.SessionStore, users ports.UserRepository, cookieName string) *SessionStrategy {
	return &SessionStrategy{sessions: sessions, users: users, cookieName: cookieName}
}

func (s *SessionStrategy) Identify(ctx context.Context, r *http.Request) (*domain.User, error) {
	sessionID := SessionCookie(r, s.cookieName)
	if sessionID == "" {
		return nil, nil
	}

	userID, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
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
