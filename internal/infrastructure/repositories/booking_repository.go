package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// BookingRepositoryImpl implements domain.BookingRepository using GORM
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// DBBooking represents the database model for Booking
type DBBooking struct {
	ID          uint   `gorm:"primaryKey"`
	Reference   string `gorm:"uniqueIndex;size:64"`
	PatientID   uint   `gorm:"index"`
	CenterID    uint   `gorm:"index"`
	TestID      uint   `gorm:"index"`
	ScheduledAt time.Time
	Status      string `gorm:"index;size:32"`
	ResultURL   string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (DBBooking) TableName() string {
	return "bookings"
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) domain.BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

// Create implements domain.BookingRepository
func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *domain.Booking) error {
	dbBooking := bookingToDB(booking)
	if err := r.db.WithContext(ctx).Create(dbBooking).Error; err != nil {
		return err
	}
	booking.ID = dbBooking.ID
	booking.CreatedAt = dbBooking.CreatedAt
	return nil
}

// FindByID implements domain.BookingRepository
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Booking, error) {
	var dbBooking DBBooking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbBooking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return bookingToDomain(&dbBooking), nil
}

// ListByPatient implements domain.BookingRepository
func (r *BookingRepositoryImpl) ListByPatient(ctx context.Context, patientID uint) ([]domain.Booking, error) {
	return r.list(ctx, "patient_id = ?", patientID)
}

// ListByCenter implements domain.BookingRepository
func (r *BookingRepositoryImpl) ListByCenter(ctx context.Context, centerID uint) ([]domain.Booking, error) {
	return r.list(ctx, "center_id = ?", centerID)
}

// Update implements domain.BookingRepository
func (r *BookingRepositoryImpl) Update(ctx context.Context, booking *domain.Booking) error {
	return r.db.WithContext(ctx).Save(bookingToDB(booking)).Error
}

func (r *BookingRepositoryImpl) list(ctx context.Context, cond string, arg any) ([]domain.Booking, error) {
	var dbBookings []DBBooking
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("scheduled_at DESC").
		Find(&dbBookings).Error
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(dbBookings))
	for i := range dbBookings {
		bookings = append(bookings, *bookingToDomain(&dbBookings[i]))
	}
	return bookings, nil
}

func bookingToDB(b *domain.Booking) *DBBooking {
	return &DBBooking{
		ID:          b.ID,
		Reference:   b.Reference,
		PatientID:   b.PatientID,
		CenterID:    b.CenterID,
		TestID:      b.TestID,
		ScheduledAt: b.ScheduledAt,
		Status:      b.Status,
		ResultURL:   b.ResultURL,
	}
}

func bookingToDomain(b *DBBooking) *domain.Booking {
	return &domain.Booking{
		ID:          b.ID,
		Reference:   b.Reference,
		PatientID:   b.PatientID,
		CenterID:    b.CenterID,
		TestID:      b.TestID,
		ScheduledAt: b.ScheduledAt,
		Status:      b.Status,
		ResultURL:   b.ResultURL,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
