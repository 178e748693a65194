package auth

import (
	"context"
	"net/http"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// Outcome is the gateway's per-request decision.
type Outcome int

const (
	// OutcomePass: the path is excluded, the request proceeds anonymously.
	OutcomePass Outcome = iota
	// OutcomeAuthenticated: credentials resolved to a user.
	OutcomeAuthenticated
	// OutcomeUnauthenticated: a protected path with no credentials at all.
	OutcomeUnauthenticated
	// OutcomeForbidden: credentials were presented but did not resolve.
	OutcomeForbidden
)

func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Gateway composes the path policy, credential extraction, and an identity
// strategy into the single authentication decision made once per request.
// It is stateless across requests; all shared state lives behind the
// injected strategy.
type Gateway struct {
	strategy   Strategy
	excluded   []string
	cookieName string
}

// NewGateway builds a Gateway. A nil strategy disables authentication
// entirely (mode "none"): every request passes.
func NewGateway(strategy Strategy, excluded []string, cookieName string) *Gateway {
	return &Gateway{strategy: strategy, excluded: excluded, cookieName: cookieName}
}

// Authenticate runs the per-request state machine. The error return is
// reserved for collaborator failures (persistence, store); every
// credential-level failure is expressed through the Outcome.
func (g *Gateway) Authenticate(ctx context.Context, r *http.Request) (Outcome, *domain.User, error) {
	if g.strategy == nil {
		return OutcomePass, nil, nil
	}

	path := ""
	if r != nil {
		path = r.URL.Path
	}
	if !Required(path, g.excluded) {
		return OutcomePass, nil, nil
	}

	if AuthorizationHeader(r) == "" && SessionCookie(r, g.cookieName) == "" {
		return OutcomeUnauthenticated, nil, nil
	}

	user, err := g.strategy.Identify(ctx, r)
	if err != nil {
		return OutcomeForbidden, nil, err
	}
	if user == nil {
		return OutcomeForbidden, nil, nil
	}
	return OutcomeAuthenticated, user, nil
}
