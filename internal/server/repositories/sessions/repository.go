// Package sessions declares the repository contract for refresh-token
// sessions.
package sessions

import (
	"context"
	"time"

	"github.com/skurlov/identsvc/internal/server/models"
)

// Repository defines operations for creating, resolving, and revoking
// sessions. Revocation is monotonic: there is no way to un-revoke.
type Repository interface {
	// Create stores a new session for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// FindActive resolves an opaque refresh token to its session, but only
	// while the session is neither revoked nor expired. Anything else is
	// common.ErrNotFound.
	FindActive(ctx context.Context, token string) (*models.Session, error)

	// RevokeAllForUser revokes every live session of the user. Revoking a
	// user with no live sessions is not an error.
	RevokeAllForUser(ctx context.Context, userID string) error
}
