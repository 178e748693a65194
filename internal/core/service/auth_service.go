package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/identity-service/internal/core/auth"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/pkg/metrics"
)

// AuthService implements registration, login/logout, and the password-reset
// flow on top of the user repository and session store.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	hasher   *auth.Hasher
	tokens   *auth.TokenIssuer
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, hasher *auth.Hasher, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, sessions: sessions, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("user_not_found").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("wrong_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := s.users.UpdateSessionID(ctx, user.ID, sessionID); err != nil {
		_, _ = s.sessions.Destroy(ctx, sessionID)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	user.SessionID = sessionID

	token, err := s.tokens.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	return &ports.LoginResult{SessionID: sessionID, AccessToken: token, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrSessionNotFound
	}

	// Resolve the owner before destroying the mapping so the persisted
	// session reference can be cleared too.
	userID, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}

	destroyed, err := s.sessions.Destroy(ctx, sessionID)
	if err != nil {
		return err
	}
	if !destroyed {
		return domain.ErrSessionNotFound
	}
	metrics.SessionsActive.Dec()

	if userID != "" {
		// The user may have been deleted while the session lived; an
		// orphaned session is not an error at logout.
		if err := s.users.UpdateSessionID(ctx, userID, ""); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
	}
	return nil
}

// RequestPasswordReset stores and returns a fresh reset token for the
// account. Token delivery is out of scope; the caller decides how the token
// reaches the user.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.users.UpdateResetToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword exchanges a valid reset token for a new password, clearing
// the token and any live session for the account.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrInvalidResetToken
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}
	if email != "" && user.Email != email {
		return domain.ErrInvalidResetToken
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.users.UpdateResetToken(ctx, user.ID, ""); err != nil {
		return err
	}

	if user.SessionID != "" {
		if destroyed, err := s.sessions.Destroy(ctx, user.SessionID); err != nil {
			return err
		} else if destroyed {
			metrics.SessionsActive.Dec()
		}
		if err := s.users.UpdateSessionID(ctx, user.ID, ""); err != nil {
			return err
		}
	}
	return nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	start := time.Now()
	hash, err := s.hasher.Hash(password)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	return hash, err
}
