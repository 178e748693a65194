package domain

import "time"

// User models an account in the identity service. PasswordHash is the only
// credential material ever persisted; plaintext passwords never leave the
// request that carried them.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SessionID    string    `json:"-"`
	ResetToken   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
