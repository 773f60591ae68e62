package models

import "time"

// CodePurpose scopes a verification code to one operation, so a password
// reset code can never be accepted for email verification and vice versa.
type CodePurpose string

const (
	PurposeEmailVerification CodePurpose = "email_verification"
	PurposePasswordReset     CodePurpose = "password_reset"
)

// VerificationCode is a single-use, time-boxed numeric secret bound to an
// email and a purpose. Multiple unconsumed codes may coexist for the same
// email/purpose; validation always matches on (email, code, purpose).
type VerificationCode struct {
	ID        string
	Email     string
	Code      string
	Purpose   CodePurpose
	IsUsed    bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
