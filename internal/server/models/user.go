// Package models defines the persisted records of the identity service:
// users, verification codes, and sessions.
package models

import "time"

// AuthProvider tags how a user's credential was established.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderExternal AuthProvider = "external"
)

// User is the identity record. Email comparison is case-insensitive; the
// service normalizes emails to lower case before they reach a repository.
// PasswordHash is empty for users without a local credential.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	IsActive     bool
	IsVerified   bool
	AuthProvider AuthProvider
	ExternalID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
