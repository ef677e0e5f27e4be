package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
	MarkEmailVerified(ctx context.Context, userID uint) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

// OTPRepository defines persistence for one-time codes. Mutations that race
// (attempt increment, used flag) are conditional updates, not read-then-write.
type OTPRepository interface {
	Create(ctx context.Context, code *OTPCode) error
	// FindActive returns the newest unused code for (userID, purpose),
	// or ErrOTPInvalidOrExpired when none exists.
	FindActive(ctx context.Context, userID uint, purpose string) (*OTPCode, error)
	// VoidActive marks every unused code for (userID, purpose) as used so a
	// reissued code supersedes its predecessors.
	VoidActive(ctx context.Context, userID uint, purpose string) error
	// IncrementAttempts bumps the attempt counter only while the code is
	// unused and under maxAttempts. Returns false when no row qualified.
	IncrementAttempts(ctx context.Context, codeID uint, maxAttempts int) (bool, error)
	// MarkUsed flips used=false to used=true. Returns false when the code was
	// already consumed, so two concurrent verifies cannot both succeed.
	MarkUsed(ctx context.Context, codeID uint) (bool, error)
	// DeleteExpired discards codes whose expiry predates cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// CenterRepository defines catalog access for partner centers.
type CenterRepository interface {
	Create(ctx context.Context, center *Center) error
	FindByID(ctx context.Context, id uint) (*Center, error)
	List(ctx context.Context, activeOnly bool) ([]Center, error)
	Update(ctx context.Context, center *Center) error
}

// LabTestRepository defines catalog access for lab tests.
type LabTestRepository interface {
	Create(ctx context.Context, test *LabTest) error
	FindByID(ctx context.Context, id uint) (*LabTest, error)
	ListByCenter(ctx context.Context, centerID uint, activeOnly bool) ([]LabTest, error)
	Update(ctx context.Context, test *LabTest) error
}

// BookingRepository defines booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id uint) (*Booking, error)
	ListByPatient(ctx context.Context, patientID uint) ([]Booking, error)
	ListByCenter(ctx context.Context, centerID uint) ([]Booking, error)
	Update(ctx context.Context, booking *Booking) error
}

// AuditEventRepository persists append-only audit rows.
type AuditEventRepository interface {
	Append(ctx context.Context, event *AuditEvent) error
	List(ctx context.Context, limit int) ([]AuditEvent, error)
}

// OTPService defines one-time code operations.
type OTPService interface {
	// GenerateAndSend issues a fresh code for the user owning email,
	// superseding any unexpired code for the same purpose, and dispatches it
	// over the user's channel. ErrUserNotFound surfaces to the caller, which
	// must still answer uniformly.
	GenerateAndSend(ctx context.Context, email, purpose string) (*OTPIssued, error)
	// Verify checks a submitted code. Wrong guesses consume attempts even
	// though the call fails; an exhausted or consumed code is permanently
	// rejected.
	Verify(ctx context.Context, email, code, purpose string) (*OTPVerification, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, email, phone, password, fullName string) (*User, *OTPIssued, error)
	// Login verifies credentials. For two-factor accounts it returns a nil
	// AuthResult plus the 2FA challenge; the login completes via Login2FA.
	Login(ctx context.Context, email, password string) (*AuthResult, *OTPIssued, error)
	Login2FA(ctx context.Context, email, code string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, email, code string) (uint, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// BookingService defines patient and partner booking operations.
type BookingService interface {
	CreateBooking(ctx context.Context, patientID, centerID, testID uint, scheduledAt time.Time) (*Booking, error)
	GetBooking(ctx context.Context, principal *Principal, bookingID uint) (*Booking, error)
	ListPatientBookings(ctx context.Context, patientID uint) ([]Booking, error)
	ListCenterBookings(ctx context.Context, centerID uint) ([]Booking, error)
	AttachResult(ctx context.Context, principal *Principal, bookingID uint, resultURL string) (*Booking, error)
}

// RateLimiter tracks per-identity, per-action counts in a fixed window and
// returns a *RateLimitError once the action's threshold is exceeded.
type RateLimiter interface {
	Check(ctx context.Context, action, identity string) error
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	Generate(user *User) (string, time.Time, error)
	Validate(token string) (*Principal, error)
}

// NotificationService dispatches one-time codes over a delivery channel.
type NotificationService interface {
	SendOTPEmail(ctx context.Context, to, name, code string) error
	SendOTPSMS(ctx context.Context, to, code string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the platform uses.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
