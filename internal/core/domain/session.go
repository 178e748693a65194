package domain

import "time"

// Session pairs an opaque token with the user it identifies. The token is a
// 128-bit random value; uniqueness is a property of the generator, not
// something the store re-checks.
type Session struct {
	ID        string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its lifetime at instant now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
