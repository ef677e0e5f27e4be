package mocks

import (
	"context"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockRateLimiter implements domain.RateLimiter interface for testing
type MockRateLimiter struct {
	CheckFunc func(ctx context.Context, action, identity string) error

	// Call recording
	Checked [][2]string
}

// NewMockRateLimiter creates a new MockRateLimiter with default behaviors
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

// Check applies the limiter
func (m *MockRateLimiter) Check(ctx context.Context, action, identity string) error {
	m.Checked = append(m.Checked, [2]string{action, identity})
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, action, identity)
	}
	// Default behavior: under the limit
	return nil
}

// Compile-time interface compliance verification
var _ domain.RateLimiter = (*MockRateLimiter)(nil)
