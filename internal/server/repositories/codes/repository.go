// Package codes declares the repository contract for one-time verification
// codes (email verification and password reset).
package codes

import (
	"context"

	"github.com/skurlov/identsvc/internal/server/models"
)

// Repository defines operations for issuing and consuming verification
// codes. Codes are never deleted or reused; consumption is a one-way flip.
type Repository interface {
	// Create stores a new code. Outstanding codes for the same email and
	// purpose are left untouched.
	Create(ctx context.Context, code *models.VerificationCode) error

	// Consume marks the matching unused, unexpired code as used. The match
	// and the flip happen in a single conditional statement, so concurrent
	// calls with the same code produce exactly one success; the losers get
	// common.ErrNotFound.
	Consume(ctx context.Context, email, code string, purpose models.CodePurpose) error
}
