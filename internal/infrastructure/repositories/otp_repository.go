package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// OTPRepositoryImpl implements domain.OTPRepository using GORM. The attempt
// and used-flag transitions are conditional updates with RowsAffected checks
// so two concurrent verifies cannot both consume the same code.
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// DBOTPCode represents the database model for OTPCode
type DBOTPCode struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index:idx_otp_user_purpose"`
	Purpose   string `gorm:"index:idx_otp_user_purpose;size:32"`
	Channel   string `gorm:"size:16"`
	Code      string `gorm:"size:16"`
	Reference string `gorm:"size:64"`
	Attempts  int
	Used      bool      `gorm:"index"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBOTPCode) TableName() string {
	return "otp_codes"
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Create implements domain.OTPRepository
func (r *OTPRepositoryImpl) Create(ctx context.Context, code *domain.OTPCode) error {
	dbCode := &DBOTPCode{
		UserID:    code.UserID,
		Purpose:   code.Purpose,
		Channel:   code.Channel,
		Code:      code.Code,
		Reference: code.Reference,
		Attempts:  code.Attempts,
		Used:      code.Used,
		ExpiresAt: code.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbCode).Error; err != nil {
		return err
	}
	code.ID = dbCode.ID
	code.CreatedAt = dbCode.CreatedAt
	return nil
}

// FindActive implements domain.OTPRepository. Expiry is checked lazily by the
// caller; this only filters consumed codes.
func (r *OTPRepositoryImpl) FindActive(ctx context.Context, userID uint, purpose string) (*domain.OTPCode, error) {
	var dbCode DBOTPCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Order("created_at DESC").
		First(&dbCode).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOTPInvalidOrExpired
		}
		return nil, err
	}
	return r.dbToDomain(&dbCode), nil
}

// VoidActive implements domain.OTPRepository
func (r *OTPRepositoryImpl) VoidActive(ctx context.Context, userID uint, purpose string) error {
	return r.db.WithContext(ctx).Model(&DBOTPCode{}).
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Update("used", true).Error
}

// IncrementAttempts implements domain.OTPRepository. The WHERE clause on the
// current state makes the increment a compare-and-set: once attempts reaches
// maxAttempts (or the code is consumed) no row qualifies and the code is
// permanently unusable.
func (r *OTPRepositoryImpl) IncrementAttempts(ctx context.Context, codeID uint, maxAttempts int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&DBOTPCode{}).
		Where("id = ? AND used = ? AND attempts < ?", codeID, false, maxAttempts).
		Update("attempts", gorm.Expr("attempts + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkUsed implements domain.OTPRepository
func (r *OTPRepositoryImpl) MarkUsed(ctx context.Context, codeID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&DBOTPCode{}).
		Where("id = ? AND used = ?", codeID, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteExpired implements domain.OTPRepository
func (r *OTPRepositoryImpl) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&DBOTPCode{})
	return res.RowsAffected, res.Error
}

func (r *OTPRepositoryImpl) dbToDomain(dbCode *DBOTPCode) *domain.OTPCode {
	return &domain.OTPCode{
		ID:        dbCode.ID,
		UserID:    dbCode.UserID,
		Purpose:   dbCode.Purpose,
		Channel:   dbCode.Channel,
		Code:      dbCode.Code,
		Reference: dbCode.Reference,
		Attempts:  dbCode.Attempts,
		Used:      dbCode.Used,
		ExpiresAt: dbCode.ExpiresAt,
		CreatedAt: dbCode.CreatedAt,
	}
}
