package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/core/auth"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/pkg/metrics"
)

// CurrentUserKey is the echo context key under which the gate stores the
// authenticated *domain.User.
const CurrentUserKey = "current_user"

// Auth runs the authentication gateway once per request. Excluded paths pass
// through anonymously; missing credentials surface as
// domain.ErrMissingCredentials (401) and unresolvable credentials as
// domain.ErrForbidden (403), both mapped by the HTTP error handler. A
// collaborator failure propagates as-is and becomes a 500.
func Auth(gateway *auth.Gateway) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			outcome, user, err := gateway.Authenticate(c.Request().Context(), c.Request())
			if err != nil {
				// A collaborator failure is not an auth decision; count it
				// apart so 500s never inflate the forbidden outcome.
				metrics.GateDecisionsTotal.WithLabelValues("error").Inc()
				return err
			}
			metrics.GateDecisionsTotal.WithLabelValues(outcome.String()).Inc()

			switch outcome {
			case auth.OutcomeUnauthenticated:
				return domain.ErrMissingCredentials
			case auth.OutcomeForbidden:
				return domain.ErrForbidden
			case auth.OutcomeAuthenticated:
				c.Set(CurrentUserKey, user)
			}
			return next(c)
		}
	}
}
