package database

import (
	"log"

	"dukadrop/config"
	"dukadrop/internal/models"

	"golang.org/x/crypto/bcrypt"
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

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Driver{},
		&models.Setting{},
	)
}

// SeedDriver creates a default driver account on an empty install so the
// app is usable out of the box. Change the PIN after first login.
func SeedDriver(db *gorm.DB) {
	var count int64
	db.Model(&models.Driver{}).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[SEED] driver pin hash: %v", err)
		return
	}
	d := &models.Driver{
		Name:    "Default Driver",
		Phone:   "254700000000",
		PINHash: string(hash),
		Active:  true,
	}
	if err := db.Create(d).Error; err != nil {
		log.Printf("[SEED] driver: %v", err)
		return
	}
	log.Printf("[SEED] created default driver %s (PIN 0000)", d.Phone)
}
