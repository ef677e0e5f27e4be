package mocks

import (
	"context"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendOTPEmailFunc func(ctx context.Context, to, name, code string) error
	SendOTPSMSFunc   func(ctx context.Context, to, code string) error

	// Call recording for dispatch assertions
	EmailCalls []string
	SMSCalls   []string
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendOTPEmail dispatches a code by email
func (m *MockNotificationService) SendOTPEmail(ctx context.Context, to, name, code string) error {
	m.EmailCalls = append(m.EmailCalls, to)
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(ctx, to, name, code)
	}
	// Default behavior: success
	return nil
}

// SendOTPSMS dispatches a code by SMS
func (m *MockNotificationService) SendOTPSMS(ctx context.Context, to, code string) error {
	m.SMSCalls = append(m.SMSCalls, to)
	if m.SendOTPSMSFunc != nil {
		return m.SendOTPSMSFunc(ctx, to, code)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
