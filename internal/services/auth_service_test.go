package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/mocks"
)

func createAuthServiceForTest(t *testing.T) (domain.AuthService, *mocks.MockUserRepository, *mocks.MockOTPService, *mocks.MockAuditLogger) {
	t.Helper()

	userRepo := mocks.NewMockUserRepository()
	passwordSvc := mocks.NewMockPasswordService()
	tokenSvc := mocks.NewMockTokenService()
	otpSvc := mocks.NewMockOTPService()
	auditLogger := mocks.NewMockAuditLogger()

	svc := NewAuthService(userRepo, passwordSvc, tokenSvc, otpSvc, auditLogger)
	return svc, userRepo, otpSvc, auditLogger
}

func TestAuthServiceImpl_Register(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockUserRepository, *mocks.MockOTPService)
		expectedError error
		validate      func(t *testing.T, user *domain.User, issued *domain.OTPIssued)
	}{
		{
			name: "successful registration is always a patient",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					user.ID = 7
					return nil
				}
				otpSvc.GenerateAndSendFunc = func(ctx context.Context, email, purpose string) (*domain.OTPIssued, error) {
					if purpose != domain.PurposeEmailVerification {
						t.Errorf("expected email_verification purpose, got %s", purpose)
					}
					return &domain.OTPIssued{Reference: "ref-1", Channel: domain.ChannelEmail, ExpiresAt: time.Now().Add(30 * time.Minute)}, nil
				}
			},
			validate: func(t *testing.T, user *domain.User, issued *domain.OTPIssued) {
				if user.Role != domain.RolePatient {
					t.Errorf("expected patient role, got %s", user.Role)
				}
				if user.EmailVerified {
					t.Error("new accounts must start unverified")
				}
				if issued == nil || issued.Reference != "ref-1" {
					t.Error("expected the issued challenge to be returned")
				}
			},
		},
		{
			name: "duplicate email rejected",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return testUser(), nil
				}
			},
			expectedError: domain.ErrUserAlreadyExists,
		},
		{
			name: "OTP dispatch failure does not fail registration",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					user.ID = 8
					return nil
				}
				otpSvc.GenerateAndSendFunc = func(ctx context.Context, email, purpose string) (*domain.OTPIssued, error) {
					return nil, domain.ErrOTPDispatchFailed
				}
			},
			validate: func(t *testing.T, user *domain.User, issued *domain.OTPIssued) {
				if user == nil {
					t.Fatal("expected created user despite dispatch failure")
				}
				if issued != nil {
					t.Error("expected nil challenge on dispatch failure")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, otpSvc, _ := createAuthServiceForTest(t)
			tt.setupMocks(userRepo, otpSvc)

			user, issued, err := svc.Register(context.Background(), "new@example.com", "+15550002222", "str0ngpass", "New Patient")

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, user, issued)
			}
		})
	}
}

func TestAuthServiceImpl_Login(t *testing.T) {
	tests := []struct {
		name              string
		password          string
		setupMocks        func(*mocks.MockUserRepository, *mocks.MockOTPService)
		expectedError     error
		expectToken       bool
		expectChallenge   bool
		expectedAuditKind domain.AuditEventType
		expectedReason    string
	}{
		{
			name:     "successful login issues a token",
			password: "correct",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					u := testUser()
					u.PasswordHash = "hashed_correct"
					return u, nil
				}
			},
			expectToken:       true,
			expectedAuditKind: domain.UserLoginEvent,
		},
		{
			name:     "unknown account collapses into invalid credentials",
			password: "whatever",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return nil, domain.ErrUserNotFound
				}
			},
			expectedError:     domain.ErrInvalidCredentials,
			expectedAuditKind: domain.UserLoginFailureEvent,
		},
		{
			name:     "wrong password collapses into invalid credentials",
			password: "wrong",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					u := testUser()
					u.PasswordHash = "hashed_correct"
					return u, nil
				}
			},
			expectedError:     domain.ErrInvalidCredentials,
			expectedAuditKind: domain.UserLoginFailureEvent,
		},
		{
			name:     "inactive account",
			password: "correct",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					u := testUser()
					u.PasswordHash = "hashed_correct"
					u.IsActive = false
					return u, nil
				}
			},
			expectedError:     domain.ErrUserInactive,
			expectedAuditKind: domain.UserLoginFailureEvent,
			expectedReason:    "inactive",
		},
		{
			name:     "unverified email",
			password: "correct",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					u := testUser()
					u.PasswordHash = "hashed_correct"
					u.EmailVerified = false
					return u, nil
				}
			},
			expectedError:     domain.ErrEmailNotVerified,
			expectedAuditKind: domain.UserLoginFailureEvent,
			expectedReason:    "email_not_verified",
		},
		{
			name:     "two-factor account gets a challenge instead of a token",
			password: "correct",
			setupMocks: func(userRepo *mocks.MockUserRepository, otpSvc *mocks.MockOTPService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					u := testUser()
					u.PasswordHash = "hashed_correct"
					u.TwoFactorEnabled = true
					return u, nil
				}
				otpSvc.GenerateAndSendFunc = func(ctx context.Context, email, purpose string) (*domain.OTPIssued, error) {
					if purpose != domain.PurposeLogin2FA {
						t.Errorf("expected login_2fa purpose, got %s", purpose)
					}
					return &domain.OTPIssued{Reference: "ref-2fa", Channel: domain.ChannelPhone, ExpiresAt: time.Now().Add(10 * time.Minute)}, nil
				}
			},
			expectChallenge:   true,
			expectedAuditKind: domain.TwoFactorChallenge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, otpSvc, auditLogger := createAuthServiceForTest(t)
			tt.setupMocks(userRepo, otpSvc)

			result, challenge, err := svc.Login(context.Background(), "patient@example.com", tt.password)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.expectToken {
				if result == nil || result.Token == "" {
					t.Fatal("expected a token")
				}
				if result.ExpiresIn <= 0 {
					t.Errorf("expected positive expires_in, got %d", result.ExpiresIn)
				}
			} else if result != nil {
				t.Fatal("expected no token")
			}

			if tt.expectChallenge && challenge == nil {
				t.Fatal("expected a two-factor challenge")
			}
			if !tt.expectChallenge && challenge != nil {
				t.Fatal("expected no challenge")
			}

			if tt.expectedAuditKind != "" {
				events := auditLogger.EventsOfType(tt.expectedAuditKind)
				if len(events) == 0 {
					t.Fatalf("expected audit event %s", tt.expectedAuditKind)
				}
				if tt.expectedReason != "" {
					if got := events[0].Detail["reason"]; got != tt.expectedReason {
						t.Errorf("expected failure reason %q, got %v", tt.expectedReason, got)
					}
				}
			}
		})
	}
}

func TestAuthServiceImpl_Login2FA(t *testing.T) {
	svc, userRepo, otpSvc, _ := createAuthServiceForTest(t)

	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		return testUser(), nil
	}
	otpSvc.VerifyFunc = func(ctx context.Context, email, code, purpose string) (*domain.OTPVerification, error) {
		if purpose != domain.PurposeLogin2FA {
			t.Errorf("expected login_2fa purpose, got %s", purpose)
		}
		if code != "246810" {
			return nil, domain.ErrOTPInvalidOrExpired
		}
		return &domain.OTPVerification{UserID: 42, Purpose: purpose}, nil
	}

	if _, err := svc.Login2FA(context.Background(), "patient@example.com", "999999"); !errors.Is(err, domain.ErrOTPInvalidOrExpired) {
		t.Fatalf("expected rejection of wrong code, got %v", err)
	}

	result, err := svc.Login2FA(context.Background(), "patient@example.com", "246810")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token after 2FA verify")
	}
}

func TestAuthServiceImpl_VerifyEmail(t *testing.T) {
	svc, userRepo, otpSvc, _ := createAuthServiceForTest(t)

	var marked uint
	userRepo.MarkEmailVerifiedFunc = func(ctx context.Context, userID uint) error {
		marked = userID
		return nil
	}
	otpSvc.VerifyFunc = func(ctx context.Context, email, code, purpose string) (*domain.OTPVerification, error) {
		return &domain.OTPVerification{UserID: 42, Purpose: purpose}, nil
	}

	userID, err := svc.VerifyEmail(context.Background(), "patient@example.com", "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != 42 || marked != 42 {
		t.Errorf("expected user 42 marked verified, got userID=%d marked=%d", userID, marked)
	}
}

func TestAuthServiceImpl_ResetPassword(t *testing.T) {
	svc, userRepo, otpSvc, auditLogger := createAuthServiceForTest(t)

	var storedHash string
	userRepo.UpdatePasswordFunc = func(ctx context.Context, userID uint, passwordHash string) error {
		storedHash = passwordHash
		return nil
	}
	otpSvc.VerifyFunc = func(ctx context.Context, email, code, purpose string) (*domain.OTPVerification, error) {
		if purpose != domain.PurposePasswordReset {
			t.Errorf("expected password_reset purpose, got %s", purpose)
		}
		return &domain.OTPVerification{UserID: 42, Purpose: purpose}, nil
	}

	if err := svc.ResetPassword(context.Background(), "patient@example.com", "123456", "newpassword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedHash != "hashed_newpassword" {
		t.Errorf("expected rehashed password stored, got %q", storedHash)
	}
	if len(auditLogger.EventsOfType(domain.PasswordResetEvent)) != 1 {
		t.Error("expected a PASSWORD_RESET audit event")
	}

	// Failed code verification must not touch the password.
	storedHash = ""
	otpSvc.VerifyFunc = func(ctx context.Context, email, code, purpose string) (*domain.OTPVerification, error) {
		return nil, domain.ErrOTPInvalidOrExpired
	}
	if err := svc.ResetPassword(context.Background(), "patient@example.com", "000000", "another"); !errors.Is(err, domain.ErrOTPInvalidOrExpired) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if storedHash != "" {
		t.Error("password must not change when the code is rejected")
	}
}
