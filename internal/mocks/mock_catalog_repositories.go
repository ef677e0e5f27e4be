package mocks

import (
	"context"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockCenterRepository implements domain.CenterRepository interface for testing
type MockCenterRepository struct {
	CreateFunc   func(ctx context.Context, center *domain.Center) error
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Center, error)
	ListFunc     func(ctx context.Context, activeOnly bool) ([]domain.Center, error)
	UpdateFunc   func(ctx context.Context, center *domain.Center) error
}

// NewMockCenterRepository creates a new MockCenterRepository with default behaviors
func NewMockCenterRepository() *MockCenterRepository {
	return &MockCenterRepository{}
}

func (m *MockCenterRepository) Create(ctx context.Context, center *domain.Center) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, center)
	}
	return nil
}

func (m *MockCenterRepository) FindByID(ctx context.Context, id uint) (*domain.Center, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrCenterNotFound
}

func (m *MockCenterRepository) List(ctx context.Context, activeOnly bool) ([]domain.Center, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (m *MockCenterRepository) Update(ctx context.Context, center *domain.Center) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, center)
	}
	return nil
}

// MockLabTestRepository implements domain.LabTestRepository interface for testing
type MockLabTestRepository struct {
	CreateFunc       func(ctx context.Context, test *domain.LabTest) error
	FindByIDFunc     func(ctx context.Context, id uint) (*domain.LabTest, error)
	ListByCenterFunc func(ctx context.Context, centerID uint, activeOnly bool) ([]domain.LabTest, error)
	UpdateFunc       func(ctx context.Context, test *domain.LabTest) error
}

// NewMockLabTestRepository creates a new MockLabTestRepository with default behaviors
func NewMockLabTestRepository() *MockLabTestRepository {
	return &MockLabTestRepository{}
}

func (m *MockLabTestRepository) Create(ctx context.Context, test *domain.LabTest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, test)
	}
	return nil
}

func (m *MockLabTestRepository) FindByID(ctx context.Context, id uint) (*domain.LabTest, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrTestNotFound
}

func (m *MockLabTestRepository) ListByCenter(ctx context.Context, centerID uint, activeOnly bool) ([]domain.LabTest, error) {
	if m.ListByCenterFunc != nil {
		return m.ListByCenterFunc(ctx, centerID, activeOnly)
	}
	return nil, nil
}

func (m *MockLabTestRepository) Update(ctx context.Context, test *domain.LabTest) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, test)
	}
	return nil
}

// Compile-time interface compliance verification
var (
	_ domain.CenterRepository  = (*MockCenterRepository)(nil)
	_ domain.LabTestRepository = (*MockLabTestRepository)(nil)
)
