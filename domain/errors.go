package domain

import (
	"errors"
	"fmt"
	"time"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailNotVerified   = errors.New("email address not verified")
)

// OTP errors. Expired, consumed, exhausted and mismatched codes all collapse
// into ErrOTPInvalidOrExpired so responses cannot be used to probe code state.
var (
	ErrOTPInvalidOrExpired = errors.New("invalid or expired verification code")
	ErrOTPDispatchFailed   = errors.New("failed to dispatch verification code")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("insufficient role permissions")
)

// Resource errors
var (
	ErrCenterNotFound  = errors.New("center not found")
	ErrTestNotFound    = errors.New("lab test not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// RateLimitError is returned when a caller exceeds the configured threshold
// for an action within the current window. RetryAfter is the remainder of the
// window for the caller's bucket.
type RateLimitError struct {
	Action     string
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Action, e.RetryAfter)
}

// OTPError wraps an OTP verification failure with the number of attempts the
// caller has left on the current code.
type OTPError struct {
	Err               error
	AttemptsRemaining int
}

func (e *OTPError) Error() string { return e.Err.Error() }

func (e *OTPError) Unwrap() error { return e.Err }
