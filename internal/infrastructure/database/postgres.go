package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog
		&entity.Product{},
		&entity.Customer{},

		// Bills
		&entity.Invoice{},
		&entity.LineItem{},

		// System entities
		&entity.BusinessSettings{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the business settings row when it is missing.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var existing entity.BusinessSettings
	err := db.First(&existing, "id = ?", entity.SettingsID).Error
	switch {
	case err == nil:
		log.Printf("Business settings already present (version %d)", existing.Version)
	case errors.Is(err, gorm.ErrRecordNotFound):
		defaults := entity.DefaultBusinessSettings()
		defaults.ID = entity.SettingsID
		defaults.Version = 1
		if err := db.Create(&defaults).Error; err != nil {
			return fmt.Errorf("failed to seed business settings: %w", err)
		}
		log.Println("Business settings created from defaults")
	default:
		return fmt.Errorf("failed to load business settings: %w", err)
	}

	log.Println("Default data seeding completed")
	return nil
}
