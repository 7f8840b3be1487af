package services

import (
	"errors"

	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

func ListCustomers(tx *gorm.DB) ([]models.Customer, error) {
	customers := []models.Customer{}
	if err := tx.Order("id ASC").Find(&customers).Error; err != nil {
		return nil, utils.Internal("failed to list customers", err)
	}
	return customers, nil
}

// FindCustomer loads a customer by its external id.
func FindCustomer(tx *gorm.DB, idCustomer string) (*models.Customer, error) {
	var customer models.Customer
	err := tx.Where("id_customer = ?", idCustomer).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("customer not found")
	}
	if err != nil {
		return nil, utils.Internal("failed to load customer", err)
	}
	return &customer, nil
}

func countCustomers(tx *gorm.DB, query string, args ...interface{}) (int64, error) {
	var count int64
	if err := tx.Model(&models.Customer{}).Where(query, args...).Count(&count).Error; err != nil {
		return 0, utils.Internal("failed to check customer", err)
	}
	return count, nil
}

// CreateCustomer inserts a customer; idcustomer and email must be unused.
func CreateCustomer(tx *gorm.DB, in models.CustomerCreate) (*models.Customer, error) {
	n, err := countCustomers(tx, "id_customer = ?", in.IDCustomer)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, utils.Conflict("customer %s already exists", in.IDCustomer)
	}

	n, err = countCustomers(tx, "email = ?", in.Email)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, utils.Conflict("email %s is already registered", in.Email)
	}

	customer := models.Customer{
		IDCustomer: in.IDCustomer,
		Name:       in.Name,
		Email:      in.Email,
		Tel:        in.Tel,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, persistError("failed to create customer", err)
	}
	return &customer, nil
}

// UpdateCustomer applies only the fields present in the update.
func UpdateCustomer(tx *gorm.DB, idCustomer string, in models.CustomerUpdate) (*models.Customer, error) {
	customer, err := FindCustomer(tx, idCustomer)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != customer.Email {
		n, err := countCustomers(tx, "email = ? AND id <> ?", *in.Email, customer.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, utils.Conflict("email %s is already registered", *in.Email)
		}
	}

	in.Apply(customer)
	if err := tx.Save(customer).Error; err != nil {
		return nil, persistError("failed to update customer", err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer that no booking references.
func DeleteCustomer(tx *gorm.DB, idCustomer string) (*models.Customer, error) {
	customer, err := FindCustomer(tx, idCustomer)
	if err != nil {
		return nil, err
	}

	var refs int64
	if err := tx.Model(&models.Booking{}).Where("customer_id = ?", idCustomer).Count(&refs).Error; err != nil {
		return nil, utils.Internal("failed to check bookings", err)
	}
	if refs > 0 {
		return nil, utils.Conflict("customer %s still has %d booking(s)", idCustomer, refs)
	}

	if err := tx.Delete(customer).Error; err != nil {
		return nil, utils.Internal("failed to delete customer", err)
	}
	return customer, nil
}
