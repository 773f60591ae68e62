package models

import "time"

// Session is the durable record behind an opaque refresh token. Revocation
// is monotonic: once Revoked is set the session is permanently unusable.
type Session struct {
	ID        string
	UserID    string
	Token     string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
