package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/core/auth"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// AuditSink receives authentication audit events without blocking the
// request path. Satisfied by the queue dispatcher.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}

type AuthHandler struct {
	authService ports.AuthService
	audit       AuditSink
	cookieName  string
	sessionTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, audit AuditSink, cookieName string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		audit:       audit,
		cookieName:  cookieName,
		sessionTTL:  sessionTTL,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetCompleteRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type resetResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.record(c, domain.AuditRegister, req.Email, false, err.Error())
		switch err {
		case domain.ErrUserExists:
			return c.JSON(http.StatusConflict, map[string]string{"error": "user already exists"})
		case domain.ErrInvalidCredentials:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return err
	}

	h.record(c, domain.AuditRegister, req.Email, true, "")
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user, sets the session cookie, and returns a
// short-lived access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.record(c, domain.AuditLogin, req.Email, false, err.Error())
		switch err {
		case domain.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "no user found for this email"})
		case domain.ErrInvalidCredentials:
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "wrong password"})
		}
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    result.SessionID,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.record(c, domain.AuditLogin, req.Email, true, "")
	return c.JSON(http.StatusOK, authResponse{Token: result.AccessToken, User: result.User})
}

// Logout destroys the session identified by the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/auth/logout [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := auth.SessionCookie(c.Request(), h.cookieName)

	if err := h.authService.Logout(c.Request().Context(), sessionID); err != nil {
		if err == domain.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.record(c, domain.AuditLogout, "", true, "")
	return c.JSON(http.StatusOK, map[string]string{})
}

// RequestPasswordReset issues a reset token for the account. Delivery of the
// token is the caller's concern; the response carries it directly.
//
// @Summary      Request a password-reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequest  true  "Account email"
// @Success      200   {object}  resetResponse
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		// Unknown emails get 403, not 404. This mirrors the upstream
		// contract even though it confirms account existence.
		if err == domain.ErrUserNotFound {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
		}
		return err
	}

	h.record(c, domain.AuditPasswordReset, req.Email, true, "token issued")
	return c.JSON(http.StatusOK, resetResponse{Email: req.Email, ResetToken: token})
}

// ResetPassword exchanges a valid reset token for a new password.
//
// @Summary      Complete a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetCompleteRequest  true  "Reset token and new password"
// @Success      200   {object}  resetResponse
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/auth/password-reset [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetCompleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.ResetToken, req.NewPassword)
	if err != nil {
		h.record(c, domain.AuditPasswordReset, req.Email, false, err.Error())
		if err == domain.ErrInvalidResetToken {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
		}
		return err
	}

	h.record(c, domain.AuditPasswordReset, req.Email, true, "password updated")
	return c.JSON(http.StatusOK, resetResponse{Email: req.Email, Message: "Password updated"})
}

func (h *AuthHandler) record(c echo.Context, action, email string, success bool, reason string) {
	if h.audit == nil {
		return
	}
	h.audit.Enqueue(domain.AuthEvent{
		Email:     email,
		Action:    action,
		Success:   success,
		Reason:    reason,
		RemoteIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		At:        time.Now().UTC(),
	})
}
