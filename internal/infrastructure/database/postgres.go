package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NVHealth/nvhealthlabs-sub001/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the platform tables plus the Casbin policy table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repositories.DBUser{},
		&repositories.DBOTPCode{},
		&repositories.DBCenter{},
		&repositories.DBLabTest{},
		&repositories.DBBooking{},
		&repositories.DBAuditEvent{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// The adapter creates the casbin_rules table on construction.
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}
