package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// BookingServiceImpl implements domain.BookingService
type BookingServiceImpl struct {
	bookingRepo domain.BookingRepository
	centerRepo  domain.CenterRepository
	testRepo    domain.LabTestRepository
	auditLogger domain.AuditLogger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo domain.BookingRepository,
	centerRepo domain.CenterRepository,
	testRepo domain.LabTestRepository,
	auditLogger domain.AuditLogger,
) domain.BookingService {
	return &BookingServiceImpl{
		bookingRepo: bookingRepo,
		centerRepo:  centerRepo,
		testRepo:    testRepo,
		auditLogger: auditLogger,
	}
}

// CreateBooking implements domain.BookingService
func (s *BookingServiceImpl) CreateBooking(ctx context.Context, patientID, centerID, testID uint, scheduledAt time.Time) (*domain.Booking, error) {
	center, err := s.centerRepo.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if !center.IsActive {
		return nil, domain.ErrCenterNotFound
	}

	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test.CenterID != centerID || !test.IsActive {
		return nil, domain.ErrTestNotFound
	}

	booking := &domain.Booking{
		Reference:   uuid.NewString(),
		PatientID:   patientID,
		CenterID:    centerID,
		TestID:      testID,
		ScheduledAt: scheduledAt,
		Status:      domain.BookingPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.auditLogger.LogDataAccess(ctx, domain.BookingCreatedEvent, nil, patientID,
		"booking", booking.Reference, map[string]any{
			"center_id": centerID,
			"test_id":   testID,
		})

	return booking, nil
}

// GetBooking implements domain.BookingService. Access is scoped: patients see
// their own bookings, center admins their center's, platform admins all.
// Out-of-scope lookups answer ErrBookingNotFound rather than ErrForbidden so
// booking ids cannot be probed.
func (s *BookingServiceImpl) GetBooking(ctx context.Context, principal *domain.Principal, bookingID uint) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch principal.Role {
	case domain.RolePlatformAdmin:
	case domain.RoleCenterAdmin:
		if booking.CenterID != principal.CenterID {
			return nil, domain.ErrBookingNotFound
		}
	default:
		if booking.PatientID != principal.UserID {
			return nil, domain.ErrBookingNotFound
		}
	}

	s.auditLogger.LogDataAccess(ctx, domain.BookingViewedEvent, nil, principal.UserID,
		"booking", booking.Reference, nil)
	return booking, nil
}

// ListPatientBookings implements domain.BookingService
func (s *BookingServiceImpl) ListPatientBookings(ctx context.Context, patientID uint) ([]domain.Booking, error) {
	return s.bookingRepo.ListByPatient(ctx, patientID)
}

// ListCenterBookings implements domain.BookingService
func (s *BookingServiceImpl) ListCenterBookings(ctx context.Context, centerID uint) ([]domain.Booking, error) {
	return s.bookingRepo.ListByCenter(ctx, centerID)
}

// AttachResult implements domain.BookingService. Only the owning center's
// admin (or a platform admin) may attach a result; doing so completes the
// booking.
func (s *BookingServiceImpl) AttachResult(ctx context.Context, principal *domain.Principal, bookingID uint, resultURL string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if principal.Role == domain.RoleCenterAdmin && booking.CenterID != principal.CenterID {
		return nil, domain.ErrBookingNotFound
	}

	booking.ResultURL = resultURL
	booking.Status = domain.BookingCompleted
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to attach result: %w", err)
	}

	s.auditLogger.LogDataAccess(ctx, domain.ResultAttachedEvent, nil, principal.UserID,
		"booking", booking.Reference, map[string]any{
			"center_id": booking.CenterID,
		})

	return booking, nil
}
