package models

import (
	"time"
)

// Booking reserves a table for a customer. Both references use business keys.
type Booking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"not null;index" json:"table_number"`
	Table       *Table    `gorm:"foreignKey:TableNumber;references:Number;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerID  string    `gorm:"type:varchar(64);not null;index" json:"customer_id"`
	Customer    *Customer `gorm:"foreignKey:CustomerID;references:IDCustomer;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Time        time.Time `gorm:"column:reserved_at;not null;index" json:"time"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// BookingCreate is the body of POST /bookings. Time is parsed as ISO-8601.
type BookingCreate struct {
	TableNumber *int   `json:"table_number" binding:"required"`
	CustomerID  string `json:"customer_id" binding:"required"`
	Time        string `json:"time" binding:"required"`
}

// BookingUpdate carries a partial update; nil fields are left untouched.
type BookingUpdate struct {
	TableNumber *int    `json:"table_number"`
	CustomerID  *string `json:"customer_id" binding:"omitempty,min=1"`
	Time        *string `json:"time"`
}

// BookingPatch is BookingUpdate after the time has been parsed.
type BookingPatch struct {
	TableNumber *int
	CustomerID  *string
	Time        *time.Time
}

// Apply copies the supplied fields onto b.
func (p BookingPatch) Apply(b *Booking) {
	if p.TableNumber != nil {
		b.TableNumber = *p.TableNumber
	}
	if p.CustomerID != nil {
		b.CustomerID = *p.CustomerID
	}
	if p.Time != nil {
		b.Time = *p.Time
	}
}

// BookingView is the response shape for a written booking.
type BookingView struct {
	ID           uint   `json:"id"`
	TableNumber  int    `json:"table_number"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer"`
	Time         string `json:"time"`
}
