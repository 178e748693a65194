package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/99minutos/identity-service/internal/core/domain"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byEmail: map[string]*domain.User{}, byID: map[string]*domain.User{}}
	for _, u := range users {
		r.byEmail[u.Email] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return user, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if token != "" && u.ResetToken == token {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateSessionID(_ context.Context, id, sessionID string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SessionID = sessionID
	return nil
}

func (r *stubUserRepo) UpdateResetToken(_ context.Context, id, token string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetToken = token
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type stubSessionStore struct {
	sessions map[string]string
}

func (s *stubSessionStore) Create(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidUserID
	}
	id := "sess-" + userID
	s.sessions[id] = userID
	return id, nil
}

func (s *stubSessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	if userID, ok := s.sessions[sessionID]; ok {
		return userID, nil
	}
	return "", domain.ErrSessionNotFound
}

func (s *stubSessionStore) Destroy(_ context.Context, sessionID string) (bool, error) {
	if _, ok := s.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(s.sessions, sessionID)
	return true, nil
}

func (s *stubSessionStore) Close(context.Context) error { return nil }

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestBasicStrategy_Identify(t *testing.T) {
	hasher := NewHasher(4)
	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := newStubUserRepo(&domain.User{ID: "u1", Email: "a@x.com", PasswordHash: hash})
	strategy := NewBasicStrategy(repo, hasher)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicHeader("a@x.com", "pw123"))
	user, err := strategy.Identify(context.Background(), req)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestBasicStrategy_Rejections(t *testing.T) {
	hasher := NewHasher(4)
	hash, _ := hasher.Hash("pw123")
	repo := newStubUserRepo(&domain.User{ID: "u1", Email: "a@x.com", PasswordHash: hash})
	strategy := NewBasicStrategy(repo, hasher)

	headers := map[string]string{
		"wrong password": basicHeader("a@x.com", "nope"),
		"unknown user":   basicHeader("ghost@x.com", "pw123"),
		"no colon":       "Basic " + base64.StdEncoding.EncodeToString([]byte("garbled")),
		"bad base64":     "Basic not-base64!",
		"wrong scheme":   "Bearer abc",
	}
	for name, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		user, err := strategy.Identify(context.Background(), req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if user != nil {
			t.Fatalf("%s: expected no identity, got %+v", name, user)
		}
	}
}

func TestSessionStrategy_Identify(t *testing.T) {
	repo := newStubUserRepo(&domain.User{ID: "u1", Email: "a@x.com"})
	store := &stubSessionStore{sessions: map[string]string{"sess-u1": "u1"}}
	strategy := NewSessionStrategy(store, repo, testCookie)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess-u1"})
	user, err := strategy.Identify(context.Background(), req)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if user == nil || user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestSessionStrategy_OrphanedSession(t *testing.T) {
	// Session maps to a user that no longer exists: no identity, no error.
	repo := newStubUserRepo()
	store := &stubSessionStore{sessions: map[string]string{"sess-gone": "gone"}}
	strategy := NewSessionStrategy(store, repo, testCookie)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess-gone"})
	user, err := strategy.Identify(context.Background(), req)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no identity for orphaned session, got %+v", user)
	}
}

func TestSessionStrategy_UnknownSession(t *testing.T) {
	repo := newStubUserRepo(&domain.User{ID: "u1", Email: "a@x.com"})
	store := &stubSessionStore{sessions: map[string]string{}}
	strategy := NewSessionStrategy(store, repo, testCookie)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "never-issued"})
	user, err := strategy.Identify(context.Background(), req)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no identity, got %+v", user)
	}
}

func TestBearerStrategy_Identify(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	repo := newStubUserRepo(&domain.User{ID: "u1", Email: "a@x.com"})
	strategy := NewBearerStrategy(repo, issuer)

	token, err := issuer.Issue(&domain.User{ID: "u1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	user, err := strategy.Identify(context.Background(), req)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestBearerStrategy_BadToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	repo := newStubUserRepo(&domain.User{ID: "u1", Email: "a@x.com"})
	strategy := NewBearerStrategy(repo, issuer)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	user, err := strategy.Identify(context.Background(), req)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no identity, got %+v", user)
	}
}
