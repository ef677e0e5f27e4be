package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// DBCenter represents the database model for Center
type DBCenter struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255"`
	City      string `gorm:"index;size:128"`
	Address   string `gorm:"size:512"`
	Phone     string `gorm:"size:32"`
	IsActive  bool   `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DBCenter) TableName() string { return "centers" }

// DBLabTest represents the database model for LabTest
type DBLabTest struct {
	ID              uint   `gorm:"primaryKey"`
	CenterID        uint   `gorm:"index"`
	Name            string `gorm:"size:255"`
	Code            string `gorm:"index;size:64"`
	PriceCents      int64
	TurnaroundHours int
	IsActive        bool `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DBLabTest) TableName() string { return "lab_tests" }

// CenterRepositoryImpl implements domain.CenterRepository using GORM
type CenterRepositoryImpl struct {
	db *gorm.DB
}

// NewCenterRepository creates a new center repository
func NewCenterRepository(db *gorm.DB) domain.CenterRepository {
	return &CenterRepositoryImpl{db: db}
}

func (r *CenterRepositoryImpl) Create(ctx context.Context, center *domain.Center) error {
	dbCenter := centerToDB(center)
	if err := r.db.WithContext(ctx).Create(dbCenter).Error; err != nil {
		return err
	}
	center.ID = dbCenter.ID
	return nil
}

func (r *CenterRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Center, error) {
	var dbCenter DBCenter
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbCenter).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCenterNotFound
		}
		return nil, err
	}
	return centerToDomain(&dbCenter), nil
}

func (r *CenterRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]domain.Center, error) {
	q := r.db.WithContext(ctx).Model(&DBCenter{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var dbCenters []DBCenter
	if err := q.Order("name").Find(&dbCenters).Error; err != nil {
		return nil, err
	}
	centers := make([]domain.Center, 0, len(dbCenters))
	for i := range dbCenters {
		centers = append(centers, *centerToDomain(&dbCenters[i]))
	}
	return centers, nil
}

func (r *CenterRepositoryImpl) Update(ctx context.Context, center *domain.Center) error {
	return r.db.WithContext(ctx).Save(centerToDB(center)).Error
}

// LabTestRepositoryImpl implements domain.LabTestRepository using GORM
type LabTestRepositoryImpl struct {
	db *gorm.DB
}

// NewLabTestRepository creates a new lab test repository
func NewLabTestRepository(db *gorm.DB) domain.LabTestRepository {
	return &LabTestRepositoryImpl{db: db}
}

func (r *LabTestRepositoryImpl) Create(ctx context.Context, test *domain.LabTest) error {
	dbTest := testToDB(test)
	if err := r.db.WithContext(ctx).Create(dbTest).Error; err != nil {
		return err
	}
	test.ID = dbTest.ID
	return nil
}

func (r *LabTestRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.LabTest, error) {
	var dbTest DBLabTest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbTest).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTestNotFound
		}
		return nil, err
	}
	return testToDomain(&dbTest), nil
}

func (r *LabTestRepositoryImpl) ListByCenter(ctx context.Context, centerID uint, activeOnly bool) ([]domain.LabTest, error) {
	q := r.db.WithContext(ctx).Model(&DBLabTest{}).Where("center_id = ?", centerID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var dbTests []DBLabTest
	if err := q.Order("name").Find(&dbTests).Error; err != nil {
		return nil, err
	}
	tests := make([]domain.LabTest, 0, len(dbTests))
	for i := range dbTests {
		tests = append(tests, *testToDomain(&dbTests[i]))
	}
	return tests, nil
}

func (r *LabTestRepositoryImpl) Update(ctx context.Context, test *domain.LabTest) error {
	return r.db.WithContext(ctx).Save(testToDB(test)).Error
}

func centerToDB(c *domain.Center) *DBCenter {
	return &DBCenter{
		ID:       c.ID,
		Name:     c.Name,
		City:     c.City,
		Address:  c.Address,
		Phone:    c.Phone,
		IsActive: c.IsActive,
	}
}

func centerToDomain(c *DBCenter) *domain.Center {
	return &domain.Center{
		ID:        c.ID,
		Name:      c.Name,
		City:      c.City,
		Address:   c.Address,
		Phone:     c.Phone,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func testToDB(t *domain.LabTest) *DBLabTest {
	return &DBLabTest{
		ID:              t.ID,
		CenterID:        t.CenterID,
		Name:            t.Name,
		Code:            t.Code,
		PriceCents:      t.PriceCents,
		TurnaroundHours: t.TurnaroundHours,
		IsActive:        t.IsActive,
	}
}

func testToDomain(t *DBLabTest) *domain.LabTest {
	return &domain.LabTest{
		ID:              t.ID,
		CenterID:        t.CenterID,
		Name:            t.Name,
		Code:            t.Code,
		PriceCents:      t.PriceCents,
		TurnaroundHours: t.TurnaroundHours,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
