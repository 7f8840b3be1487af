package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/hub"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

// DefaultManualHold is how long a staff-set occupancy flag wins over the
// occupancy monitor.
const DefaultManualHold = 2 * time.Hour

type TableController struct {
	DB         *gorm.DB
	Hub        hub.Broadcaster
	ManualHold time.Duration
	Now        func() time.Time
}

func NewTableController(db *gorm.DB, b hub.Broadcaster) *TableController {
	return &TableController{DB: db, Hub: b, ManualHold: DefaultManualHold, Now: time.Now}
}

func tableNumberParam(c *gin.Context) (int, bool) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		utils.RespondAppError(c, utils.Validation(fmt.Errorf("table number %q is not an integer", c.Param("number"))))
		return 0, false
	}
	return number, true
}

// GetAllTables -> seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	err := database.Run(c.Request.Context(), tc.DB, func(tx *gorm.DB) (err error) {
		tables, err = services.ListTables(tx)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req models.TableCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}

	var table *models.Table
	uow := database.NewUnitOfWork(tc.DB).Do(func(tx *gorm.DB) (err error) {
		table, err = services.CreateTable(tx, req)
		return err
	})
	uow.AfterCommit(func() { tc.Hub.Broadcast(hub.EventTableCreate, table) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("New table created: %d (seats=%d)", table.Number, table.Seats)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetTableByNumber -> detail satu meja
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number, ok := tableNumberParam(c)
	if !ok {
		return
	}

	var table *models.Table
	err := database.Run(c.Request.Context(), tc.DB, func(tx *gorm.DB) (err error) {
		table, err = services.FindTable(tx, number)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableSeats -> ubah jumlah kursi
func (tc *TableController) UpdateTableSeats(c *gin.Context) {
	number, ok := tableNumberParam(c)
	if !ok {
		return
	}
	var body models.SeatsUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}

	var table *models.Table
	uow := database.NewUnitOfWork(tc.DB).Do(func(tx *gorm.DB) (err error) {
		table, err = services.UpdateSeats(tx, number, body.Seats)
		return err
	})
	uow.AfterCommit(func() { tc.Hub.Broadcast(hub.EventTableUpdate, table) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("Table %d seats changed to %d", table.Number, table.Seats)
	utils.RespondJSON(c, http.StatusOK, "Table seats updated", table)
}

// UpdateTableOccupancy -> tandai meja terisi / kosong
func (tc *TableController) UpdateTableOccupancy(c *gin.Context) {
	number, ok := tableNumberParam(c)
	if !ok {
		return
	}
	var body models.OccupancyUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}

	var table *models.Table
	uow := database.NewUnitOfWork(tc.DB).Do(func(tx *gorm.DB) (err error) {
		var until time.Time
		if tc.ManualHold > 0 {
			until = tc.Now().Add(tc.ManualHold)
		}
		table, err = services.SetOccupancy(tx, number, *body.IsOccupied, until)
		return err
	})
	uow.AfterCommit(func() { tc.Hub.Broadcast(hub.EventTableUpdate, table) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("Table %d occupancy set to %t", table.Number, table.IsOccupied)
	utils.RespondJSON(c, http.StatusOK, "Table occupancy updated", table)
}

// DeleteTable -> menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	number, ok := tableNumberParam(c)
	if !ok {
		return
	}

	uow := database.NewUnitOfWork(tc.DB).Do(func(tx *gorm.DB) error {
		_, err := services.DeleteTable(tx, number)
		return err
	})
	uow.AfterCommit(func() { tc.Hub.Broadcast(hub.EventTableDelete, gin.H{"number": number}) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("Table %d deleted", number)
	utils.RespondNoContent(c)
}

// FindTablesByOccupancy -> ?is_occupied=true|false
func (tc *TableController) FindTablesByOccupancy(c *gin.Context) {
	occupied, err := strconv.ParseBool(c.Query("is_occupied"))
	if err != nil {
		utils.RespondAppError(c, utils.Validation(fmt.Errorf("is_occupied must be true or false")))
		return
	}

	var (
		tables []models.Table
		label  string
	)
	err = database.Run(c.Request.Context(), tc.DB, func(tx *gorm.DB) (err error) {
		tables, label, err = services.FilterTablesByOccupancy(tx, occupied)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, label, tables)
}

// GetTableBookings -> reservasi untuk satu meja
func (tc *TableController) GetTableBookings(c *gin.Context) {
	number, ok := tableNumberParam(c)
	if !ok {
		return
	}

	var bookings []models.Booking
	err := database.Run(c.Request.Context(), tc.DB, func(tx *gorm.DB) (err error) {
		bookings, err = services.ListBookingsForTable(tx, number)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Bookings for table %d", number), bookings)
}
