package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// SessionStore keeps session-to-user mappings in Redis so sessions survive
// process restarts and are shared across instances. Expiry rides on native
// key TTLs. Key format: session:<session_id>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// Sessions expire after ttl; a zero or negative ttl makes them persistent.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidUserID
	}

	sessionID := uuid.NewString()
	if err := s.client.Set(ctx, s.key(sessionID), userID, max(s.ttl, 0)).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", domain.ErrSessionNotFound
	}

	userID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

func (s *SessionStore) Destroy(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("destroy session: %w", err)
	}
	return n > 0, nil
}

// Close is a no-op: the Redis client is owned and closed by the process
// bootstrap, not by the store.
func (s *SessionStore) Close(context.Context) error {
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}
