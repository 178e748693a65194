package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/99minutos/identity-service/internal/core/domain"
)

type stubStrategy struct {
	user *domain.User
	err  error
}

func (s *stubStrategy) Identify(context.Context, *http.Request) (*domain.User, error) {
	return s.user, s.err
}

const testCookie = "_identity_session"

func protectedRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
}

func TestGateway_ExcludedPathPasses(t *testing.T) {
	gw := NewGateway(&stubStrategy{}, []string{"/health*"}, testCookie)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	outcome, user, err := gw.Authenticate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomePass || user != nil {
		t.Fatalf("expected pass, got %v user=%v", outcome, user)
	}
}

func TestGateway_NoCredentials(t *testing.T) {
	gw := NewGateway(&stubStrategy{}, []string{"/health*"}, testCookie)

	outcome, _, err := gw.Authenticate(context.Background(), protectedRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", outcome)
	}
}

func TestGateway_CredentialsDoNotResolve(t *testing.T) {
	gw := NewGateway(&stubStrategy{}, []string{"/health*"}, testCookie)

	req := protectedRequest()
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "stale"})
	outcome, _, err := gw.Authenticate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeForbidden {
		t.Fatalf("expected forbidden, got %v", outcome)
	}
}

func TestGateway_Authenticated(t *testing.T) {
	want := &domain.User{ID: "u1", Email: "a@x.com"}
	gw := NewGateway(&stubStrategy{user: want}, []string{"/health*"}, testCookie)

	req := protectedRequest()
	req.Header.Set("Authorization", "Basic abc")
	outcome, user, err := gw.Authenticate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeAuthenticated {
		t.Fatalf("expected authenticated, got %v", outcome)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGateway_CollaboratorFailure(t *testing.T) {
	boom := errors.New("mongo down")
	gw := NewGateway(&stubStrategy{err: boom}, nil, testCookie)

	req := protectedRequest()
	req.Header.Set("Authorization", "Basic abc")
	_, _, err := gw.Authenticate(context.Background(), req)
	if !errors.Is(err, boom) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestGateway_NilStrategyPassesEverything(t *testing.T) {
	gw := NewGateway(nil, nil, testCookie)

	outcome, _, err := gw.Authenticate(context.Background(), protectedRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomePass {
		t.Fatalf("expected pass with nil strategy, got %v", outcome)
	}
}
