package mocks

import (
	"context"
	"time"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockOTPRepository implements domain.OTPRepository interface for testing
type MockOTPRepository struct {
	CreateFunc            func(ctx context.Context, code *domain.OTPCode) error
	FindActiveFunc        func(ctx context.Context, userID uint, purpose string) (*domain.OTPCode, error)
	VoidActiveFunc        func(ctx context.Context, userID uint, purpose string) error
	IncrementAttemptsFunc func(ctx context.Context, codeID uint, maxAttempts int) (bool, error)
	MarkUsedFunc          func(ctx context.Context, codeID uint) (bool, error)
	DeleteExpiredFunc     func(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

// Create stores a new code
func (m *MockOTPRepository) Create(ctx context.Context, code *domain.OTPCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, code)
	}
	// Default behavior: success
	return nil
}

// FindActive returns the newest unused code for (userID, purpose)
func (m *MockOTPRepository) FindActive(ctx context.Context, userID uint, purpose string) (*domain.OTPCode, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, userID, purpose)
	}
	// Default behavior: no active code
	return nil, domain.ErrOTPInvalidOrExpired
}

// VoidActive marks all unused codes for (userID, purpose) as used
func (m *MockOTPRepository) VoidActive(ctx context.Context, userID uint, purpose string) error {
	if m.VoidActiveFunc != nil {
		return m.VoidActiveFunc(ctx, userID, purpose)
	}
	// Default behavior: success
	return nil
}

// IncrementAttempts bumps the attempt counter under the cap
func (m *MockOTPRepository) IncrementAttempts(ctx context.Context, codeID uint, maxAttempts int) (bool, error) {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, codeID, maxAttempts)
	}
	// Default behavior: increment applied
	return true, nil
}

// MarkUsed consumes the code
func (m *MockOTPRepository) MarkUsed(ctx context.Context, codeID uint) (bool, error) {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, codeID)
	}
	// Default behavior: consumed
	return true, nil
}

// DeleteExpired discards long-expired rows
func (m *MockOTPRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, cutoff)
	}
	// Default behavior: nothing deleted
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPRepository = (*MockOTPRepository)(nil)
