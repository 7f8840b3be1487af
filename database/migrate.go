package database

import (
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&models.Staff{},
		&models.Table{},
		&models.Customer{},
		&models.Booking{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		utils.ErrorLogger.Errorf("AutoMigrate failed: %v", err)
		return err
	}
	utils.InfoLogger.Info("AutoMigrate completed.")
	return nil
}
