package mocks

import (
	"context"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, email, phone, password, fullName string) (*domain.User, *domain.OTPIssued, error)
	LoginFunc         func(ctx context.Context, email, password string) (*domain.AuthResult, *domain.OTPIssued, error)
	Login2FAFunc      func(ctx context.Context, email, code string) (*domain.AuthResult, error)
	VerifyEmailFunc   func(ctx context.Context, email, code string) (uint, error)
	ResetPasswordFunc func(ctx context.Context, email, code, newPassword string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register creates an account
func (m *MockAuthService) Register(ctx context.Context, email, phone, password, fullName string) (*domain.User, *domain.OTPIssued, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, phone, password, fullName)
	}
	// Default behavior: minimal created user
	return &domain.User{ID: 1, Email: email, Role: domain.RolePatient, IsActive: true}, nil, nil
}

// Login verifies credentials
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, *domain.OTPIssued, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: rejected
	return nil, nil, domain.ErrInvalidCredentials
}

// Login2FA completes a two-factor login
func (m *MockAuthService) Login2FA(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	if m.Login2FAFunc != nil {
		return m.Login2FAFunc(ctx, email, code)
	}
	// Default behavior: rejected
	return nil, domain.ErrOTPInvalidOrExpired
}

// VerifyEmail confirms an email address
func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string) (uint, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, email, code)
	}
	// Default behavior: rejected
	return 0, domain.ErrOTPInvalidOrExpired
}

// ResetPassword replaces a password after code verification
func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, newPassword)
	}
	// Default behavior: rejected
	return domain.ErrOTPInvalidOrExpired
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
