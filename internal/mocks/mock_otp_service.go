package mocks

import (
	"context"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	GenerateAndSendFunc func(ctx context.Context, email, purpose string) (*domain.OTPIssued, error)
	VerifyFunc          func(ctx context.Context, email, code, purpose string) (*domain.OTPVerification, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// GenerateAndSend issues and dispatches a code
func (m *MockOTPService) GenerateAndSend(ctx context.Context, email, purpose string) (*domain.OTPIssued, error) {
	if m.GenerateAndSendFunc != nil {
		return m.GenerateAndSendFunc(ctx, email, purpose)
	}
	// Default behavior: no account for the email
	return nil, domain.ErrUserNotFound
}

// Verify checks a submitted code
func (m *MockOTPService) Verify(ctx context.Context, email, code, purpose string) (*domain.OTPVerification, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, code, purpose)
	}
	// Default behavior: rejected
	return nil, domain.ErrOTPInvalidOrExpired
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
