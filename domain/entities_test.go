package domain

import (
	"errors"
	"testing"
	"time"
)

func TestOTPCode_Expired(t *testing.T) {
	now := time.Now()
	code := &OTPCode{ExpiresAt: now.Add(10 * time.Minute)}

	if code.Expired(now) {
		t.Error("code should not be expired before its deadline")
	}
	if !code.Expired(now.Add(11 * time.Minute)) {
		t.Error("code should be expired after its deadline")
	}
}

func TestOTPCode_Exhausted(t *testing.T) {
	code := &OTPCode{Attempts: 2}
	if code.Exhausted(3) {
		t.Error("two attempts against a cap of three is not exhausted")
	}
	code.Attempts = 3
	if !code.Exhausted(3) {
		t.Error("three attempts against a cap of three is exhausted")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RolePatient, RoleCenterAdmin, RolePlatformAdmin} {
		if !ValidRole(role) {
			t.Errorf("%s should be a valid role", role)
		}
	}
	for _, role := range []string{"", "admin", "superuser"} {
		if ValidRole(role) {
			t.Errorf("%q should not be a valid role", role)
		}
	}
}

func TestValidPurpose(t *testing.T) {
	for _, purpose := range []string{PurposeEmailVerification, PurposePasswordReset, PurposeLogin2FA} {
		if !ValidPurpose(purpose) {
			t.Errorf("%s should be a valid purpose", purpose)
		}
	}
	if ValidPurpose("session_refresh") {
		t.Error("unknown purposes must be rejected")
	}
}

func TestOTPError_Unwrap(t *testing.T) {
	err := &OTPError{Err: ErrOTPInvalidOrExpired, AttemptsRemaining: 1}

	if !errors.Is(err, ErrOTPInvalidOrExpired) {
		t.Error("OTPError should unwrap to ErrOTPInvalidOrExpired")
	}

	var otpErr *OTPError
	if !errors.As(error(err), &otpErr) {
		t.Fatal("errors.As should match *OTPError")
	}
	if otpErr.AttemptsRemaining != 1 {
		t.Errorf("expected 1 attempt remaining, got %d", otpErr.AttemptsRemaining)
	}
}

func TestRateLimitError_Message(t *testing.T) {
	err := &RateLimitError{Action: "login", Limit: 5, RetryAfter: 30 * time.Second}
	if err.Error() == "" {
		t.Error("expected a descriptive message")
	}

	var rle *RateLimitError
	if !errors.As(error(err), &rle) {
		t.Fatal("errors.As should match *RateLimitError")
	}
}
