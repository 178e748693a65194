package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/api"
	"github.com/99minutos/identity-service/internal/api/middleware"
	"github.com/99minutos/identity-service/internal/core/auth"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/session"
	"github.com/99minutos/identity-service/internal/pkg/metrics"
)

const cookieName = "_identity_session"

type stubUserRepo struct {
	users map[string]*domain.User // keyed by ID
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateSessionID(context.Context, string, string) error  { return nil }
func (r *stubUserRepo) UpdateResetToken(context.Context, string, string) error { return nil }
func (r *stubUserRepo) UpdatePassword(context.Context, string, string) error   { return nil }

func newTestGateway(t *testing.T) (*auth.Gateway, *session.MemoryStore) {
	t.Helper()
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "a@x.com"},
	}}
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	strategy := auth.NewSessionStrategy(store, repo, cookieName)
	return auth.NewGateway(strategy, []string{"/health*"}, cookieName), store
}

func run(t *testing.T, gw *auth.Gateway, req *http.Request) (*httptest.ResponseRecorder, bool, *domain.User) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen *domain.User
	handler := middleware.Auth(gw)(func(c echo.Context) error {
		called = true
		seen, _ = c.Get(middleware.CurrentUserKey).(*domain.User)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, seen
}

func TestAuthMiddleware_ExcludedPath(t *testing.T) {
	gw, _ := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec, called, user := run(t, gw, req)

	if !called {
		t.Fatalf("next not called on excluded path")
	}
	if user != nil {
		t.Fatalf("excluded path must pass anonymously, got %+v", user)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingCredentials(t *testing.T) {
	gw, _ := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec, called, _ := run(t, gw, req)

	if called {
		t.Fatalf("next must not run without credentials")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_StaleSession(t *testing.T) {
	gw, _ := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "never-issued"})
	rec, called, _ := run(t, gw, req)

	if called {
		t.Fatalf("next must not run with a stale session")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidSession(t *testing.T) {
	gw, store := newTestGateway(t)

	sessionID, err := store.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	rec, called, user := run(t, gw, req)

	if !called {
		t.Fatalf("next not called with a valid session")
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("unexpected user in context: %+v", user)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

type failingStrategy struct {
	err error
}

func (s failingStrategy) Identify(context.Context, *http.Request) (*domain.User, error) {
	return nil, s.err
}

func TestAuthMiddleware_CollaboratorError(t *testing.T) {
	gw := auth.NewGateway(failingStrategy{err: errors.New("user store down")}, nil, cookieName)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "s-1"})

	errorsBefore := testutil.ToFloat64(metrics.GateDecisionsTotal.WithLabelValues("error"))
	forbiddenBefore := testutil.ToFloat64(metrics.GateDecisionsTotal.WithLabelValues("forbidden"))

	rec, called, _ := run(t, gw, req)

	if called {
		t.Fatalf("next must not run when the gateway fails")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(metrics.GateDecisionsTotal.WithLabelValues("error")); got != errorsBefore+1 {
		t.Fatalf("error decisions = %v, want %v", got, errorsBefore+1)
	}
	if got := testutil.ToFloat64(metrics.GateDecisionsTotal.WithLabelValues("forbidden")); got != forbiddenBefore {
		t.Fatalf("a gateway failure must not count as a forbidden decision")
	}
}

func TestAuthMiddleware_DestroyedSession(t *testing.T) {
	gw, store := newTestGateway(t)

	sessionID, _ := store.Create(context.Background(), "u1")
	if _, err := store.Destroy(context.Background(), sessionID); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	rec, called, _ := run(t, gw, req)

	if called {
		t.Fatalf("next must not run after the session was destroyed")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
