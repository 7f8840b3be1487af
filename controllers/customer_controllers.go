package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/hub"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

type CustomerController struct {
	DB  *gorm.DB
	Hub hub.Broadcaster
}

func NewCustomerController(db *gorm.DB, b hub.Broadcaster) *CustomerController {
	return &CustomerController{DB: db, Hub: b}
}

// GetAllCustomers -> semua customer
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	var customers []models.Customer
	err := database.Run(c.Request.Context(), cc.DB, func(tx *gorm.DB) (err error) {
		customers, err = services.ListCustomers(tx)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// CreateCustomer -> membuat customer baru
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req models.CustomerCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}

	var customer *models.Customer
	uow := database.NewUnitOfWork(cc.DB).Do(func(tx *gorm.DB) (err error) {
		customer, err = services.CreateCustomer(tx, req)
		return err
	})
	uow.AfterCommit(func() { cc.Hub.Broadcast(hub.EventCustomerCreate, customer) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("New customer created: %s", customer.IDCustomer)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

// GetCustomerByID -> detail 1 customer
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id := c.Param("idcustomer")

	var customer *models.Customer
	err := database.Run(c.Request.Context(), cc.DB, func(tx *gorm.DB) (err error) {
		customer, err = services.FindCustomer(tx, id)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

// UpdateCustomer -> hanya field yang dikirim yang diubah
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id := c.Param("idcustomer")

	var req models.CustomerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.Validation(err))
		return
	}

	var customer *models.Customer
	uow := database.NewUnitOfWork(cc.DB).Do(func(tx *gorm.DB) (err error) {
		customer, err = services.UpdateCustomer(tx, id, req)
		return err
	})
	uow.AfterCommit(func() { cc.Hub.Broadcast(hub.EventCustomerUpdate, customer) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("Customer %s updated", customer.IDCustomer)
	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

// DeleteCustomer -> menghapus customer tanpa reservasi
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id := c.Param("idcustomer")

	uow := database.NewUnitOfWork(cc.DB).Do(func(tx *gorm.DB) error {
		_, err := services.DeleteCustomer(tx, id)
		return err
	})
	uow.AfterCommit(func() { cc.Hub.Broadcast(hub.EventCustomerDelete, gin.H{"idcustomer": id}) })
	if err := uow.Commit(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Infof("Customer %s deleted", id)
	utils.RespondNoContent(c)
}

// GetCustomerBookings -> reservasi milik customer
func (cc *CustomerController) GetCustomerBookings(c *gin.Context) {
	id := c.Param("idcustomer")

	var bookings []models.Booking
	err := database.Run(c.Request.Context(), cc.DB, func(tx *gorm.DB) (err error) {
		bookings, err = services.ListBookingsForCustomer(tx, id)
		return err
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Bookings for customer %s", id), bookings)
}
