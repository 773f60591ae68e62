package common

import "errors"

var (

	// repository specific errors
	ErrNotFound = errors.New("not found")

	// domain error kinds returned by the auth service; the transport layer
	// translates these into user-facing responses
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrNotVerified           = errors.New("email not verified")
	ErrInactive              = errors.New("account is inactive")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired code")
	ErrAlreadyVerified       = errors.New("email already verified")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpiredOrRevoked = errors.New("token expired or revoked")

	// infrastructure errors, surfaced generically without detail
	ErrInternal = errors.New("internal error")
)
