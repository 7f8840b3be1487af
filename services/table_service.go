package services

import (
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

// ListTables returns every table ordered by number.
func ListTables(tx *gorm.DB) ([]models.Table, error) {
	tables := []models.Table{}
	if err := tx.Order("number ASC").Find(&tables).Error; err != nil {
		return nil, utils.Internal("failed to list tables", err)
	}
	return tables, nil
}

// FindTable loads a table by its number.
func FindTable(tx *gorm.DB, number int) (*models.Table, error) {
	var table models.Table
	err := tx.Where("number = ?", number).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("table not found")
	}
	if err != nil {
		return nil, utils.Internal("failed to load table", err)
	}
	return &table, nil
}

func tableExists(tx *gorm.DB, number int) (bool, error) {
	var count int64
	if err := tx.Model(&models.Table{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return false, utils.Internal("failed to check table", err)
	}
	return count > 0, nil
}

// CreateTable inserts a free table. The number must not be taken.
func CreateTable(tx *gorm.DB, in models.TableCreate) (*models.Table, error) {
	if in.Number == nil {
		return nil, utils.Validation(errors.New("table number is required"))
	}
	number := *in.Number
	exists, err := tableExists(tx, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.Conflict("table %d already exists", number)
	}

	table := models.Table{
		Number:     number,
		Seats:      in.Seats,
		IsOccupied: false,
	}
	if err := tx.Create(&table).Error; err != nil {
		return nil, persistError("failed to create table", err)
	}
	return &table, nil
}

// UpdateSeats changes the seat count of a table.
func UpdateSeats(tx *gorm.DB, number, seats int) (*models.Table, error) {
	table, err := FindTable(tx, number)
	if err != nil {
		return nil, err
	}
	table.Seats = seats
	if err := tx.Save(table).Error; err != nil {
		return nil, utils.Internal("failed to update table", err)
	}
	return table, nil
}

// SetOccupancy sets the occupancy flag of a table and holds it against the
// occupancy monitor until the given time. A zero until sets no hold.
func SetOccupancy(tx *gorm.DB, number int, occupied bool, until time.Time) (*models.Table, error) {
	table, err := FindTable(tx, number)
	if err != nil {
		return nil, err
	}
	table.IsOccupied = occupied
	table.ManualUntil = nil
	if !until.IsZero() {
		u := until.UTC()
		table.ManualUntil = &u
	}
	if err := tx.Save(table).Error; err != nil {
		return nil, utils.Internal("failed to update table", err)
	}
	return table, nil
}

// DeleteTable removes a table that no booking references.
func DeleteTable(tx *gorm.DB, number int) (*models.Table, error) {
	table, err := FindTable(tx, number)
	if err != nil {
		return nil, err
	}

	var refs int64
	if err := tx.Model(&models.Booking{}).Where("table_number = ?", number).Count(&refs).Error; err != nil {
		return nil, utils.Internal("failed to check bookings", err)
	}
	if refs > 0 {
		return nil, utils.Conflict("table %d still has %d booking(s)", number, refs)
	}

	if err := tx.Delete(table).Error; err != nil {
		return nil, utils.Internal("failed to delete table", err)
	}
	return table, nil
}

// FilterTablesByOccupancy returns the matching tables and a label for them.
func FilterTablesByOccupancy(tx *gorm.DB, occupied bool) ([]models.Table, string, error) {
	tables := []models.Table{}
	if err := tx.Where("is_occupied = ?", occupied).Order("number ASC").Find(&tables).Error; err != nil {
		return nil, "", utils.Internal("failed to filter tables", err)
	}
	return tables, OccupancyLabel(occupied), nil
}

func OccupancyLabel(occupied bool) string {
	if occupied {
		return "Occupied tables"
	}
	return "Available tables"
}

// persistError reports storage-level unique violations as conflicts.
func persistError(message string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.Conflict("%s: duplicate key", message)
	}
	return utils.Internal(message, err)
}
