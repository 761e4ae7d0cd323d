package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Small pool by default; the product runs on ephemeral deployments.
	sqlDB.SetMaxOpenConns(cfg.DBPoolSize + cfg.DBOverflow)
	sqlDB.SetMaxIdleConns(cfg.DBPoolSize)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// MigrateShared runs AutoMigrate for the shared models.
func MigrateShared() error {
	return MigrateSharedOn(DB)
}

// MigrateSharedOn migrates the shared models on an arbitrary connection.
func MigrateSharedOn(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.PostImage{},
		&models.PostLike{},
		&models.Comment{},
		&models.Report{},
		&models.BlockedWord{},
		&models.Divulgacao{},
		&models.EduContent{},
		&models.EduTopic{},
		&models.EduNovidade{},
		&models.SupportTicket{},
		&models.SystemLog{},
	)
}

// MigrateModels runs AutoMigrate for arbitrary models (used by plugins).
func MigrateModels(modelList []interface{}) error {
	if len(modelList) == 0 {
		return nil
	}
	return DB.AutoMigrate(modelList...)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
