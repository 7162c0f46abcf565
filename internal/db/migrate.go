package db

import (
	"fmt"

	"github.com/surveyorhq/surveyor/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Inspector{},
		&models.Customer{},
		&models.Contract{},
		&models.WorkOrder{},
		&models.Location{},
		&models.SubLocation{},
		&models.Task{},
		&models.TaskEntry{},
		&models.LocationEntry{},
		&models.MediaAttachment{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
