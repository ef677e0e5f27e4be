package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// OTPServiceImpl implements domain.OTPService over a persistent code store.
// Codes are scoped to (user, purpose): reissuing supersedes older codes, and
// the attempt/used transitions ride on the repository's conditional updates
// so concurrent verifies cannot double-spend a code.
type OTPServiceImpl struct {
	otpRepo         domain.OTPRepository
	userRepo        domain.UserRepository
	notificationSvc domain.NotificationService
	auditLogger     domain.AuditLogger
	config          OTPConfig
	now             func() time.Time
}

type OTPConfig struct {
	Length      int
	MaxAttempts int
	TTLs        map[string]time.Duration // per purpose
	SweepAfter  time.Duration            // grace before expired rows are discarded
}

// DefaultTTL is used for a purpose without a configured TTL.
const DefaultTTL = 15 * time.Minute

// NewOTPService creates a new OTP service
func NewOTPService(
	otpRepo domain.OTPRepository,
	userRepo domain.UserRepository,
	notificationSvc domain.NotificationService,
	auditLogger domain.AuditLogger,
	config OTPConfig,
) domain.OTPService {
	if config.Length <= 0 {
		config.Length = 6
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	return &OTPServiceImpl{
		otpRepo:         otpRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		auditLogger:     auditLogger,
		config:          config,
		now:             time.Now,
	}
}

// GenerateAndSend implements domain.OTPService. ErrUserNotFound is returned
// to the handler, which must keep its response uniform so the endpoint cannot
// be used to enumerate accounts.
func (s *OTPServiceImpl) GenerateAndSend(ctx context.Context, email, purpose string) (*domain.OTPIssued, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// A reissued code supersedes any unexpired predecessor for the same
	// (user, purpose) so codes cannot stack.
	if err := s.otpRepo.VoidActive(ctx, user.ID, purpose); err != nil {
		return nil, fmt.Errorf("failed to void previous codes: %w", err)
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	channel := domain.ChannelEmail
	if user.Phone != "" && purpose == domain.PurposeLogin2FA && user.TwoFactorEnabled {
		channel = domain.ChannelPhone
	}

	otp := &domain.OTPCode{
		UserID:    user.ID,
		Purpose:   purpose,
		Channel:   channel,
		Code:      code,
		Reference: uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttlFor(purpose)),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	// Dispatch failure surfaces to the caller; the stored code is not rolled
	// back, it simply expires.
	switch channel {
	case domain.ChannelPhone:
		err = s.notificationSvc.SendOTPSMS(ctx, user.Phone, code)
	default:
		err = s.notificationSvc.SendOTPEmail(ctx, user.Email, user.FullName, code)
	}
	if err != nil {
		s.auditLogger.LogOTP(ctx, domain.OTPRequestEvent, &user.ID, channel, map[string]any{
			"purpose": purpose,
			"error":   "dispatch_failed",
		})
		return nil, domain.ErrOTPDispatchFailed
	}

	s.auditLogger.LogOTP(ctx, domain.OTPRequestEvent, &user.ID, channel, map[string]any{
		"purpose":   purpose,
		"reference": otp.Reference,
	})

	return &domain.OTPIssued{
		Reference: otp.Reference,
		Channel:   channel,
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

// Verify implements domain.OTPService. The attempt increment runs before the
// comparison and persists even when the call fails, so repeated wrong guesses
// exhaust the cap; once exhausted the code is dead even for the right value.
func (s *OTPServiceImpl) Verify(ctx context.Context, email, code, purpose string) (*domain.OTPVerification, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrOTPInvalidOrExpired
		}
		return nil, err
	}

	otp, err := s.otpRepo.FindActive(ctx, user.ID, purpose)
	if err != nil {
		s.logVerifyFailure(ctx, &user.ID, purpose, "no_active_code")
		return nil, domain.ErrOTPInvalidOrExpired
	}

	defer s.sweep(ctx)

	if otp.Expired(s.now()) {
		s.logVerifyFailure(ctx, &user.ID, purpose, "expired")
		return nil, domain.ErrOTPInvalidOrExpired
	}

	ok, err := s.otpRepo.IncrementAttempts(ctx, otp.ID, s.config.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}
	if !ok {
		// Cap reached or code consumed by a concurrent verify.
		s.logVerifyFailure(ctx, &user.ID, purpose, "attempts_exhausted")
		return nil, domain.ErrOTPInvalidOrExpired
	}
	attempts := otp.Attempts + 1

	if otp.Code != code {
		remaining := s.config.MaxAttempts - attempts
		s.logVerifyFailure(ctx, &user.ID, purpose, "mismatch")
		return nil, &domain.OTPError{
			Err:               domain.ErrOTPInvalidOrExpired,
			AttemptsRemaining: remaining,
		}
	}

	ok, err = s.otpRepo.MarkUsed(ctx, otp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume code: %w", err)
	}
	if !ok {
		s.logVerifyFailure(ctx, &user.ID, purpose, "already_used")
		return nil, domain.ErrOTPInvalidOrExpired
	}

	s.auditLogger.LogOTP(ctx, domain.OTPVerifySuccessEvent, &user.ID, otp.Channel, map[string]any{
		"purpose": purpose,
	})

	return &domain.OTPVerification{UserID: user.ID, Purpose: purpose}, nil
}

// sweep opportunistically discards long-expired rows after each verify; there
// is no scheduled cleanup daemon.
func (s *OTPServiceImpl) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.config.SweepAfter)
	_, _ = s.otpRepo.DeleteExpired(ctx, cutoff)
}

func (s *OTPServiceImpl) logVerifyFailure(ctx context.Context, userID *uint, purpose, reason string) {
	s.auditLogger.LogOTP(ctx, domain.OTPVerifyFailureEvent, userID, "", map[string]any{
		"purpose": purpose,
		"reason":  reason,
	})
}

func (s *OTPServiceImpl) ttlFor(purpose string) time.Duration {
	if ttl, ok := s.config.TTLs[purpose]; ok {
		return ttl
	}
	return DefaultTTL
}

// generateCode draws each digit uniformly from crypto/rand. Collisions across
// users are acceptable; uniqueness is scoped to (user, purpose).
func (s *OTPServiceImpl) generateCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
