package database

import (
	"fmt"
	"log"
	"settleup-backend/config"
	"settleup-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() error {
	db, err := gorm.Open(postgres.Open(config.AppConfig.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Expense{},
		&models.Settlement{},
		&models.Activity{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.Println("✅ Database migrated successfully")
	DB = db
	return nil
}
