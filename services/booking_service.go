package services

import (
	"errors"

	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

// Booking writes check their references first and never write when a check
// fails. The checks and the insert share the caller's transaction but take
// no locks, so two concurrent requests can both pass validation before
// either writes.

func ListBookings(tx *gorm.DB) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if err := tx.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, utils.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

// ListBookingsForTable returns the bookings of an existing table.
func ListBookingsForTable(tx *gorm.DB, number int) ([]models.Booking, error) {
	if _, err := FindTable(tx, number); err != nil {
		return nil, err
	}
	bookings := []models.Booking{}
	if err := tx.Where("table_number = ?", number).Order("reserved_at ASC").Find(&bookings).Error; err != nil {
		return nil, utils.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

// ListBookingsForCustomer returns the bookings of an existing customer.
func ListBookingsForCustomer(tx *gorm.DB, idCustomer string) ([]models.Booking, error) {
	if _, err := FindCustomer(tx, idCustomer); err != nil {
		return nil, err
	}
	bookings := []models.Booking{}
	if err := tx.Where("customer_id = ?", idCustomer).Order("reserved_at ASC").Find(&bookings).Error; err != nil {
		return nil, utils.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

func FindBooking(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("booking not found")
	}
	if err != nil {
		return nil, utils.Internal("failed to load booking", err)
	}
	return &booking, nil
}

// CreateBooking checks the table, then the customer, then inserts.
func CreateBooking(tx *gorm.DB, in models.BookingCreate) (*models.BookingView, error) {
	at, err := utils.ParseTimestamp(in.Time)
	if err != nil {
		return nil, utils.Validation(err)
	}

	if in.TableNumber == nil {
		return nil, utils.Validation(errors.New("table_number is required"))
	}
	if _, err := FindTable(tx, *in.TableNumber); err != nil {
		return nil, err
	}
	customer, err := FindCustomer(tx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		TableNumber: *in.TableNumber,
		CustomerID:  customer.IDCustomer,
		Time:        at,
	}
	if err := tx.Create(&booking).Error; err != nil {
		return nil, utils.Internal("failed to create booking", err)
	}
	return viewOf(&booking, customer), nil
}

// ParseBookingUpdate validates the time of a partial update.
func ParseBookingUpdate(in models.BookingUpdate) (models.BookingPatch, error) {
	patch := models.BookingPatch{
		TableNumber: in.TableNumber,
		CustomerID:  in.CustomerID,
	}
	if in.Time != nil {
		at, err := utils.ParseTimestamp(*in.Time)
		if err != nil {
			return patch, utils.Validation(err)
		}
		patch.Time = &at
	}
	return patch, nil
}

// UpdateBooking re-validates any reference the patch changes, then applies
// only the supplied fields.
func UpdateBooking(tx *gorm.DB, id uint, patch models.BookingPatch) (*models.BookingView, error) {
	booking, err := FindBooking(tx, id)
	if err != nil {
		return nil, err
	}

	if patch.CustomerID != nil && *patch.CustomerID != booking.CustomerID {
		if _, err := FindCustomer(tx, *patch.CustomerID); err != nil {
			return nil, err
		}
	}
	if patch.TableNumber != nil && *patch.TableNumber != booking.TableNumber {
		if _, err := FindTable(tx, *patch.TableNumber); err != nil {
			return nil, err
		}
	}

	patch.Apply(booking)
	if err := tx.Save(booking).Error; err != nil {
		return nil, utils.Internal("failed to update booking", err)
	}

	customer, err := FindCustomer(tx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	return viewOf(booking, customer), nil
}

// DeleteBooking removes a booking by id.
func DeleteBooking(tx *gorm.DB, id uint) (*models.Booking, error) {
	booking, err := FindBooking(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Delete(booking).Error; err != nil {
		return nil, utils.Internal("failed to delete booking", err)
	}
	return booking, nil
}

func viewOf(b *models.Booking, c *models.Customer) *models.BookingView {
	return &models.BookingView{
		ID:           b.ID,
		TableNumber:  b.TableNumber,
		CustomerID:   b.CustomerID,
		CustomerName: c.Name,
		Time:         utils.FormatTimestamp(b.Time),
	}
}
