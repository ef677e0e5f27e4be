package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID               uint   `gorm:"primaryKey"`
	Email            string `gorm:"uniqueIndex;size:255"`
	Phone            string `gorm:"index;size:32"`
	PasswordHash     string `gorm:"column:password"`
	FullName         string `gorm:"size:255"`
	Role             string `gorm:"index;size:64"`
	CenterID         uint   `gorm:"index"`
	IsActive         bool   `gorm:"index"`
	EmailVerified    bool   `gorm:"index"`
	TwoFactorEnabled bool
	CreatedAt        time.Time      `gorm:"index"`
	UpdatedAt        time.Time      `gorm:"index"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// MarkEmailVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkEmailVerified(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Update("email_verified", true).Error
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Update("password", passwordHash).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:               user.ID,
		Email:            user.Email,
		Phone:            user.Phone,
		PasswordHash:     user.PasswordHash,
		FullName:         user.FullName,
		Role:             user.Role,
		CenterID:         user.CenterID,
		IsActive:         user.IsActive,
		EmailVerified:    user.EmailVerified,
		TwoFactorEnabled: user.TwoFactorEnabled,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:               dbUser.ID,
		Email:            dbUser.Email,
		Phone:            dbUser.Phone,
		PasswordHash:     dbUser.PasswordHash,
		FullName:         dbUser.FullName,
		Role:             dbUser.Role,
		CenterID:         dbUser.CenterID,
		IsActive:         dbUser.IsActive,
		EmailVerified:    dbUser.EmailVerified,
		TwoFactorEnabled: dbUser.TwoFactorEnabled,
		CreatedAt:        dbUser.CreatedAt,
		UpdatedAt:        dbUser.UpdatedAt,
	}
}
