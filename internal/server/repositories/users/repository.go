// Package users declares the repository contract for identity records.
package users

import (
	"context"

	"github.com/skurlov/identsvc/internal/server/models"
)

// Repository defines persistence operations on users. Emails are expected
// to arrive already lower-cased; uniqueness is enforced by the store.
type Repository interface {
	// Create persists a new user. A conflicting email yields
	// common.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Activate flips the user to verified and active in one statement.
	// Returns common.ErrNotFound when no user has that email.
	Activate(ctx context.Context, email string) error

	// UpdatePasswordHash replaces the stored password hash.
	// Returns common.ErrNotFound when no user has that id.
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}
