package model

import (
	"time"
)

// PasswordResetToken is single-use and lazily expired: nothing sweeps old
// rows, expiry is checked when the token is consumed.
type PasswordResetToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
