package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/hub"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

type BookingController struct {
	DB  *gorm.DB
	Hub hub.Broadcaster
}

func NewBookingController(db *gorm.DB, b hub.Broadcaster) *BookingController {
	return &BookingController{DB: db, Hub: b}
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("booking_id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondAppError(c, utils.Validation(fmt.Errorf("booking id %q is not a positive integer", c.Param("booking_id"))))
		return 0, false
	}
	return uint(id), true
}

// GetAllBookings -> semua reservasi
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	var bookings []models.Booking
	err := database.Run(c.Request.Context(), bc.DB, func(tx *gorm.DB) (err error) {
		bookings, err = services.ListBookings(tx)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// CreateBooking -> reservasi baru, meja dan customer harus sudah ada
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}

	var view *models.BookingView
	uow := database.NewUnitOfWork(bc.DB).Do(func(tx *gorm.DB) (err error) {
		view, err = services.CreateBooking(tx, req)
		return err
	})
	uow.AfterCommit(func() { bc.Hub.Broadcast(hub.EventBookingCreate, view) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"booking_id":   view.ID,
		"table_number": view.TableNumber,
		"customer_id":  view.CustomerID,
	}).Info("New booking created")
	utils.RespondJSON(c, http.StatusCreated, "Booking created", view)
}

// GetBookingByID -> detail reservasi
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var booking *models.Booking
	err := database.Run(c.Request.Context(), bc.DB, func(tx *gorm.DB) (err error) {
		booking, err = services.FindBooking(tx, id)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateBooking -> PUT dan PATCH, hanya field yang dikirim yang diubah
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req models.BookingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}
	patch, err := services.ParseBookingUpdate(req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var view *models.BookingView
	uow := database.NewUnitOfWork(bc.DB).Do(func(tx *gorm.DB) (err error) {
		view, err = services.UpdateBooking(tx, id, patch)
		return err
	})
	uow.AfterCommit(func() { bc.Hub.Broadcast(hub.EventBookingUpdate, view) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("Booking %d updated", view.ID)
	utils.RespondJSON(c, http.StatusOK, "Booking updated", view)
}

// DeleteBooking -> menghapus reservasi
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	uow := database.NewUnitOfWork(bc.DB).Do(func(tx *gorm.DB) error {
		_, err := services.DeleteBooking(tx, id)
		return err
	})
	uow.AfterCommit(func() { bc.Hub.Broadcast(hub.EventBookingDelete, gin.H{"id": id}) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("Booking %d deleted", id)
	utils.RespondNoContent(c)
}
