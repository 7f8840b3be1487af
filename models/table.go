package models

import "time"

type Table struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Number     int       `gorm:"not null;uniqueIndex" json:"number"`
	Seats      int       `gorm:"not null" json:"seats"`
	IsOccupied bool      `gorm:"not null;default:false" json:"is_occupied"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`

	// ManualUntil holds a flag set by staff; the occupancy monitor leaves
	// the table alone until then.
	ManualUntil *time.Time `gorm:"column:occupancy_manual_until" json:"manual_until,omitempty"`
}

// TableCreate is the body of POST /tables. Number is a pointer so that
// table 0 passes the required check.
type TableCreate struct {
	Number *int `json:"number" binding:"required"`
	Seats  int  `json:"seats" binding:"required,gt=0"`
}

// SeatsUpdate is the body of PATCH /tables/:number.
type SeatsUpdate struct {
	Seats int `json:"seats" binding:"required,gt=0"`
}

// OccupancyUpdate is the body of PATCH /tables/:number/occupancy.
type OccupancyUpdate struct {
	IsOccupied *bool `json:"is_occupied" binding:"required"`
}
