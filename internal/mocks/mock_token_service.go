package mocks

import (
	"time"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateFunc func(user *domain.User) (string, time.Time, error)
	ValidateFunc func(token string) (*domain.Principal, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Generate issues a token for the user
func (m *MockTokenService) Generate(user *domain.User) (string, time.Time, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(user)
	}
	// Default behavior: fixed token, one hour out
	return "mock_token", time.Now().Add(time.Hour), nil
}

// Validate resolves a principal from the token
func (m *MockTokenService) Validate(token string) (*domain.Principal, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: invalid token
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
