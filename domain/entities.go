package domain

import "time"

// Roles recognized by the platform.
const (
	RolePatient       = "patient"
	RoleCenterAdmin   = "center_admin"
	RolePlatformAdmin = "platform_admin"
)

// OTP purposes scope which operation a code can satisfy.
const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
	PurposeLogin2FA          = "login_2fa"
)

// OTP delivery channels.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// User represents a platform account.
type User struct {
	ID               uint
	Email            string
	Phone            string
	PasswordHash     string
	FullName         string
	Role             string
	CenterID         uint // set for center_admin accounts
	IsActive         bool
	EmailVerified    bool
	TwoFactorEnabled bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidRole reports whether role is one of the platform roles.
func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleCenterAdmin, RolePlatformAdmin:
		return true
	}
	return false
}

// ValidPurpose reports whether purpose is a known OTP purpose.
func ValidPurpose(purpose string) bool {
	switch purpose {
	case PurposeEmailVerification, PurposePasswordReset, PurposeLogin2FA:
		return true
	}
	return false
}

// OTPCode is a one-time code bound to a user, purpose and delivery channel.
// A code is single use and permanently rejected once Attempts reaches the cap.
type OTPCode struct {
	ID        uint
	UserID    uint
	Purpose   string
	Channel   string
	Code      string
	Reference string
	Attempts  int
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code's absolute expiry has elapsed at now.
// Expiry is detected lazily at verify time; there is no active timer.
func (c *OTPCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Exhausted reports whether the attempt cap has been reached.
func (c *OTPCode) Exhausted(maxAttempts int) bool {
	return c.Attempts >= maxAttempts
}

// OTPIssued is the caller-visible result of issuing a code. The code value
// itself never leaves the service except through the delivery channel.
type OTPIssued struct {
	Reference string
	Channel   string
	ExpiresAt time.Time
}

// OTPVerification is the result of a successful verify.
type OTPVerification struct {
	UserID  uint
	Purpose string
}

// Principal is the authenticated identity resolved from a validated token.
// It is derived per request from claims, never fetched from storage.
type Principal struct {
	UserID        uint
	Email         string
	Role          string
	CenterID      uint
	EmailVerified bool
}

// AuthResult is the outcome of a successful login.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresIn int64
}

// Center is a partner diagnostics lab.
type Center struct {
	ID        uint
	Name      string
	City      string
	Address   string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LabTest is a catalog entry offered by a center.
type LabTest struct {
	ID              uint
	CenterID        uint
	Name            string
	Code            string
	PriceCents      int64
	TurnaroundHours int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Booking is a patient's reservation of a lab test at a center.
type Booking struct {
	ID          uint
	Reference   string
	PatientID   uint
	CenterID    uint
	TestID      uint
	ScheduledAt time.Time
	Status      string
	ResultURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
