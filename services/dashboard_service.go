package services

import (
	"time"

	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

type DashboardStats struct {
	TableStats struct {
		Total     int64 `json:"total"`
		Occupied  int64 `json:"occupied"`
		Available int64 `json:"available"`
		Seats     int64 `json:"seats"`
	} `json:"table_stats"`
	TotalCustomers int64 `json:"total_customers"`
	BookingStats   struct {
		Total    int64 `json:"total"`
		Today    int64 `json:"today"`
		Upcoming int64 `json:"upcoming"`
	} `json:"booking_stats"`
}

// GetDashboardStats counts tables, customers and bookings. "Today" is the
// UTC calendar day containing now.
func GetDashboardStats(tx *gorm.DB, now time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		model interface{}
		dest  *int64
		query string
		args  []interface{}
	}{
		{&models.Table{}, &stats.TableStats.Total, "", nil},
		{&models.Table{}, &stats.TableStats.Occupied, "is_occupied = ?", []interface{}{true}},
		{&models.Customer{}, &stats.TotalCustomers, "", nil},
		{&models.Booking{}, &stats.BookingStats.Total, "", nil},
		{&models.Booking{}, &stats.BookingStats.Today, "reserved_at >= ? AND reserved_at < ?", []interface{}{dayStart, dayStart.AddDate(0, 0, 1)}},
		{&models.Booking{}, &stats.BookingStats.Upcoming, "reserved_at >= ?", []interface{}{now}},
	}
	for _, q := range counts {
		db := tx.Model(q.model)
		if q.query != "" {
			db = db.Where(q.query, q.args...)
		}
		if err := db.Count(q.dest).Error; err != nil {
			return nil, utils.Internal("failed to compute dashboard stats", err)
		}
	}
	stats.TableStats.Available = stats.TableStats.Total - stats.TableStats.Occupied

	if err := tx.Model(&models.Table{}).
		Select("COALESCE(SUM(seats), 0)").
		Row().Scan(&stats.TableStats.Seats); err != nil {
		return nil, utils.Internal("failed to compute dashboard stats", err)
	}
	return &stats, nil
}

// UpcomingBookings returns up to limit bookings at or after now, soonest
// first, with the customer's name filled in.
func UpcomingBookings(tx *gorm.DB, now time.Time, limit int) ([]models.BookingView, error) {
	var bookings []models.Booking
	if err := tx.Preload("Customer").
		Where("reserved_at >= ?", now.UTC()).
		Order("reserved_at ASC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, utils.Internal("failed to list upcoming bookings", err)
	}

	views := make([]models.BookingView, 0, len(bookings))
	for i := range bookings {
		customer := bookings[i].Customer
		if customer == nil {
			customer = &models.Customer{}
		}
		views = append(views, *viewOf(&bookings[i], customer))
	}
	return views, nil
}
