// Package session provides the in-memory reference implementation of
// ports.SessionStore. It suits single-process deployments; multi-instance
// deployments should use the Redis-backed store instead, since sessions here
// die with the process.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/identity-service/internal/core/domain"
)

const sweepInterval = 5 * time.Minute

// MemoryStore maps session tokens to user IDs under a reader/writer lock;
// lookups dominate the workload. Expired entries are rejected lazily on
// Lookup and reaped by a background sweep until Close is called.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session

	ttl       time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates a store whose sessions expire after ttl. A zero or
// negative ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidUserID
	}

	sess := domain.Session{ID: uuid.NewString(), UserID: userID}
	if s.ttl > 0 {
		sess.ExpiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess.ID, nil
}

func (s *MemoryStore) Lookup(_ context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", domain.ErrSessionNotFound
	}

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", domain.ErrSessionNotFound
	}

	if sess.Expired(time.Now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return "", domain.ErrSessionNotFound
	}
	return sess.UserID, nil
}

func (s *MemoryStore) Destroy(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(s.sessions, sessionID)
	return true, nil
}

// Close stops the sweeper and drops all sessions. Subsequent lookups report
// not found.
func (s *MemoryStore) Close(context.Context) error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.sessions = make(map[string]domain.Session)
		s.mu.Unlock()
	})
	return nil
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, sess := range s.sessions {
				if sess.Expired(now) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
