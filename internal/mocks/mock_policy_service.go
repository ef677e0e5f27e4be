package mocks

import (
	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockPolicyService implements domain.PolicyService interface for testing. It
// records rule changes so tests can assert on what was stored.
type MockPolicyService struct {
	AddPolicyFunc       func(role, resource, action string) error
	RemovePolicyFunc    func(role, resource, action string) error
	CheckPermissionFunc func(role, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string

	Added   [][3]string
	Removed [][3]string
}

// NewMockPolicyService creates a new MockPolicyService
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// AddPolicy records the rule or calls the mock function
func (m *MockPolicyService) AddPolicy(role, resource, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action)
	}
	m.Added = append(m.Added, [3]string{role, resource, action})
	return nil
}

// RemovePolicy records the rule or calls the mock function
func (m *MockPolicyService) RemovePolicy(role, resource, action string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action)
	}
	m.Removed = append(m.Removed, [3]string{role, resource, action})
	return nil
}

// CheckPermission calls the mock function or allows by default
func (m *MockPolicyService) CheckPermission(role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	return true, nil
}

// GetPolicies calls the mock function or returns the recorded additions
func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	policies := make([][]string, 0, len(m.Added))
	for _, p := range m.Added {
		policies = append(policies, []string{p[0], p[1], p[2]})
	}
	return policies
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
