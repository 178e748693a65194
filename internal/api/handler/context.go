package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/middleware"
	"github.com/99minutos/identity-service/internal/core/domain"
)

// currentUser extracts the identity injected by the Auth middleware. It
// returns nil on excluded paths, where the request legitimately proceeds
// anonymously; handlers that require an identity must treat nil as absent.
func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.CurrentUserKey).(*domain.User)
	return user
}
