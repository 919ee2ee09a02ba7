package domain

import "errors"

// Authentication failures surfaced by the login flow. Handlers translate these
// into the wire-level reason strings.
var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrPasswordResetRequired = errors.New("password reset required")
	ErrAccountClosed         = errors.New("account closed")
	ErrAccountNotActive      = errors.New("account not active")
	ErrTooManyLoginAttempts  = errors.New("too many login attempts")
)
