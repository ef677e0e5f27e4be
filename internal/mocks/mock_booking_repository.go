package mocks

import (
	"context"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// MockBookingRepository implements domain.BookingRepository interface for testing
type MockBookingRepository struct {
	CreateFunc        func(ctx context.Context, booking *domain.Booking) error
	FindByIDFunc      func(ctx context.Context, id uint) (*domain.Booking, error)
	ListByPatientFunc func(ctx context.Context, patientID uint) ([]domain.Booking, error)
	ListByCenterFunc  func(ctx context.Context, centerID uint) ([]domain.Booking, error)
	UpdateFunc        func(ctx context.Context, booking *domain.Booking) error
}

// NewMockBookingRepository creates a new MockBookingRepository with default behaviors
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uint) (*domain.Booking, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) ListByPatient(ctx context.Context, patientID uint) ([]domain.Booking, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID)
	}
	return nil, nil
}

func (m *MockBookingRepository) ListByCenter(ctx context.Context, centerID uint) ([]domain.Booking, error) {
	if m.ListByCenterFunc != nil {
		return m.ListByCenterFunc(ctx, centerID)
	}
	return nil, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, booking)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.BookingRepository = (*MockBookingRepository)(nil)
