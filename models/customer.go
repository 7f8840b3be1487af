package models

import (
	"time"
)

type Customer struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	IDCustomer string    `gorm:"column:id_customer;type:varchar(64);not null;uniqueIndex" json:"idcustomer"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Email      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	Tel        *string   `gorm:"type:varchar(20)" json:"tel"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// CustomerCreate is the body of POST /customers.
type CustomerCreate struct {
	IDCustomer string  `json:"idcustomer" binding:"required,max=64"`
	Name       string  `json:"name" binding:"required,max=100"`
	Email      string  `json:"email" binding:"required,email,max=100"`
	Tel        *string `json:"tel" binding:"omitempty,max=20"`
}

// CustomerUpdate carries a partial update; nil fields are left untouched.
type CustomerUpdate struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=100"`
	Tel   *string `json:"tel" binding:"omitempty,max=20"`
}

// Apply copies the supplied fields onto c.
func (u CustomerUpdate) Apply(c *Customer) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Tel != nil {
		tel := *u.Tel
		c.Tel = &tel
	}
}
