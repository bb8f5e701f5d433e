package database

import (
	"context"
	"fmt"

	"studio8/config"
	"studio8/internal/database/migrations"
	"studio8/internal/models"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Package{},
		&models.SubPackage{},
		&models.AddOn{},
		&models.SubAddOn{},
		&models.Client{},
		&models.Booking{},
		&models.Referral{},
		&models.FinancialTransaction{},
		&models.StaffUser{},
		&models.Notification{},
		&models.AuditLog{},
		&models.SystemSetting{},
	)
}

// RunMigrations applies the pending seed migrations in dir. Run it after AutoMigrate.
func RunMigrations(ctx context.Context, db *gorm.DB, dir string, admin config.AdminConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	dialect := "mysql"
	if db.Dialector.Name() == "sqlite" {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	migrations.SetAdmin(admin)
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
