package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fabworks-backend/config"
	"fabworks-backend/internal/auth"
	"fabworks-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// The quote code retry loop relies on gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Service{},
		&model.Quotation{},
		&model.QuoteFile{},
		&model.Order{},
		&model.OrderFile{},
		&model.Counter{},
		&model.PushSubscription{},
	)
}

// Seed creates the bootstrap rows: the order number counter and, when
// configured, the default admin account. Existing rows are left untouched.
func Seed(db *gorm.DB, authCfg *config.AuthConfig) error {
	var counter model.Counter
	err := db.First(&counter, "name = ?", model.CounterOrders).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&model.Counter{Name: model.CounterOrders, Value: 0}).Error; err != nil {
			return fmt.Errorf("failed to seed order counter: %w", err)
		}
	} else if err != nil {
		return err
	}

	if authCfg.AdminUsername == "" || authCfg.AdminPassword == "" {
		return nil
	}

	var user model.User
	err = db.First(&user, "username = ?", authCfg.AdminUsername).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(authCfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := model.User{
		Username:     authCfg.AdminUsername,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	log.Printf("seeded default admin user %q", authCfg.AdminUsername)
	return nil
}
