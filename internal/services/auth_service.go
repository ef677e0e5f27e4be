package services

import (
	"context"
	"fmt"
	"time"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	auditLogger domain.AuditLogger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	auditLogger domain.AuditLogger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		auditLogger: auditLogger,
	}
}

// Register implements domain.AuthService. New accounts are patients; staff
// accounts are provisioned by a platform admin, never self-registered.
func (s *AuthServiceImpl) Register(ctx context.Context, email, phone, password, fullName string) (*domain.User, *domain.OTPIssued, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Phone:        phone,
		PasswordHash: hashedPassword,
		FullName:     fullName,
		Role:         domain.RolePatient,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditLogger.LogAuth(ctx, domain.UserRegistrationEvent, nil, &user.ID, map[string]any{
		"email": email,
	})

	issued, err := s.otpSvc.GenerateAndSend(ctx, email, domain.PurposeEmailVerification)
	if err != nil {
		// Account exists; the user can request a fresh code later.
		return user, nil, nil
	}

	return user, issued, nil
}

// Login implements domain.AuthService. Credential failures collapse into
// ErrInvalidCredentials so responses cannot distinguish unknown accounts from
// wrong passwords. Two-factor accounts get a login_2fa challenge instead of a
// token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, *domain.OTPIssued, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.auditLogger.LogAuth(ctx, domain.UserLoginFailureEvent, nil, nil, map[string]any{
			"email":  email,
			"reason": "unknown_account",
		})
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.auditLogger.LogAuth(ctx, domain.UserLoginFailureEvent, nil, &user.ID, map[string]any{
			"reason": "bad_password",
		})
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.auditLogger.LogAuth(ctx, domain.UserLoginFailureEvent, nil, &user.ID, map[string]any{
			"reason": "inactive",
		})
		return nil, nil, domain.ErrUserInactive
	}

	if !user.EmailVerified {
		s.auditLogger.LogAuth(ctx, domain.UserLoginFailureEvent, nil, &user.ID, map[string]any{
			"reason": "email_not_verified",
		})
		return nil, nil, domain.ErrEmailNotVerified
	}

	if user.TwoFactorEnabled {
		issued, err := s.otpSvc.GenerateAndSend(ctx, email, domain.PurposeLogin2FA)
		if err != nil {
			return nil, nil, err
		}
		s.auditLogger.LogAuth(ctx, domain.TwoFactorChallenge, nil, &user.ID, nil)
		return nil, issued, nil
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}

	s.auditLogger.LogAuth(ctx, domain.UserLoginEvent, nil, &user.ID, nil)
	return result, nil, nil
}

// Login2FA implements domain.AuthService
func (s *AuthServiceImpl) Login2FA(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	verification, err := s.otpSvc.Verify(ctx, email, code, domain.PurposeLogin2FA)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, verification.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.auditLogger.LogAuth(ctx, domain.UserLoginEvent, nil, &user.ID, map[string]any{
		"two_factor": true,
	})
	return result, nil
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, email, code string) (uint, error) {
	verification, err := s.otpSvc.Verify(ctx, email, code, domain.PurposeEmailVerification)
	if err != nil {
		return 0, err
	}

	if err := s.userRepo.MarkEmailVerified(ctx, verification.UserID); err != nil {
		return 0, fmt.Errorf("failed to mark email verified: %w", err)
	}

	return verification.UserID, nil
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	verification, err := s.otpSvc.Verify(ctx, email, code, domain.PurposePasswordReset)
	if err != nil {
		return err
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, verification.UserID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.auditLogger.LogAuth(ctx, domain.PasswordResetEvent, nil, &verification.UserID, nil)
	return nil
}

func (s *AuthServiceImpl) issueToken(user *domain.User) (*domain.AuthResult, error) {
	token, expiresAt, err := s.tokenSvc.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &domain.AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
	}, nil
}
