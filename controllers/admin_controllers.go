package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

const (
	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 100
)

type AdminController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db, Now: time.Now}
}

// GetDashboardStats mengambil statistik untuk dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats *services.DashboardStats
	err := database.Run(c.Request.Context(), ac.DB, func(tx *gorm.DB) (err error) {
		stats, err = services.GetDashboardStats(tx, ac.Now())
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetUpcomingBookings -> reservasi berikutnya, ?limit=N (default 10)
func (ac *AdminController) GetUpcomingBookings(c *gin.Context) {
	limit := defaultUpcomingLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxUpcomingLimit {
			utils.RespondAppError(c, utils.Validation(fmt.Errorf("limit must be between 1 and %d", maxUpcomingLimit)))
			return
		}
		limit = n
	}

	var bookings []models.BookingView
	err := database.Run(c.Request.Context(), ac.DB, func(tx *gorm.DB) (err error) {
		bookings, err = services.UpcomingBookings(tx, ac.Now(), limit)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Upcoming bookings retrieved successfully", bookings)
}
