package domain

import "time"

// Audit action names recorded for authentication activity.
const (
	AuditLogin         = "login"
	AuditLogout        = "logout"
	AuditRegister      = "register"
	AuditPasswordReset = "password_reset"
)

// AuthEvent is one entry of the authentication audit trail. Email is stored
// as provided; redaction is applied at the logging boundary, not here.
type AuthEvent struct {
	Email     string    `json:"email"`
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	At        time.Time `json:"at"`
}
