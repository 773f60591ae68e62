// Package notify abstracts out-of-band delivery of one-time codes. The
// engine commits its state first and then calls the notifier; a delivery
// failure is logged by the caller and never rolls the transition back.
package notify

import "context"

// Notifier dispatches a code to a user-controlled address.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendPasswordResetCode(ctx context.Context, email, code string) error
}
