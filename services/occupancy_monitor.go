package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/hub"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

// OccupancyMonitor periodically derives Table.IsOccupied from bookings.
// A table is occupied while one of its bookings started within Window.
type OccupancyMonitor struct {
	DB       *gorm.DB
	Hub      hub.Broadcaster
	Interval time.Duration
	Window   time.Duration
	Now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewOccupancyMonitor(db *gorm.DB, b hub.Broadcaster, interval, window time.Duration) *OccupancyMonitor {
	return &OccupancyMonitor{
		DB:       db,
		Hub:      b,
		Interval: interval,
		Window:   window,
		Now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start launches the polling goroutine. A zero interval disables the monitor.
func (om *OccupancyMonitor) Start() {
	if om.Interval <= 0 {
		utils.InfoLogger.Info("Occupancy monitor disabled")
		return
	}

	om.wg.Add(1)
	go func() {
		defer om.wg.Done()
		ticker := time.NewTicker(om.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				om.Tick(context.Background())
			case <-om.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Infof("Occupancy monitor started (interval=%s, window=%s)", om.Interval, om.Window)
}

// Stop ends the polling goroutine and waits for it.
func (om *OccupancyMonitor) Stop() {
	om.stopOnce.Do(func() { close(om.stopChan) })
	om.wg.Wait()
}

// Tick runs one synchronisation and broadcasts the tables it changed.
func (om *OccupancyMonitor) Tick(ctx context.Context) {
	var changed []models.Table
	uow := database.NewUnitOfWork(om.DB).Do(func(tx *gorm.DB) error {
		var err error
		changed, err = SyncOccupancy(tx, om.Now(), om.Window)
		return err
	})
	uow.AfterCommit(func() {
		for _, t := range changed {
			om.Hub.Broadcast(hub.EventTableUpdate, t)
		}
	})

	if err := uow.Commit(ctx); err != nil {
		utils.ErrorLogger.Errorf("Error syncing table occupancy: %v", err)
		return
	}
	if len(changed) > 0 {
		utils.InfoLogger.Infof("Occupancy updated for %d table(s)", len(changed))
	}
}

// SyncOccupancy sets IsOccupied on every table whose flag disagrees with
// the bookings in [now-window, now] and returns the changed tables.
// Tables whose manual hold has not expired are skipped.
func SyncOccupancy(tx *gorm.DB, now time.Time, window time.Duration) ([]models.Table, error) {
	var active []int
	if err := tx.Model(&models.Booking{}).
		Where("reserved_at BETWEEN ? AND ?", now.Add(-window).UTC(), now.UTC()).
		Distinct().
		Pluck("table_number", &active).Error; err != nil {
		return nil, utils.Internal("failed to load active bookings", err)
	}

	busy := make(map[int]bool, len(active))
	for _, n := range active {
		busy[n] = true
	}

	var tables []models.Table
	if err := tx.Order("number ASC").Find(&tables).Error; err != nil {
		return nil, utils.Internal("failed to load tables", err)
	}

	var changed []models.Table
	for i := range tables {
		if held := tables[i].ManualUntil; held != nil && held.After(now) {
			continue
		}
		want := busy[tables[i].Number]
		if tables[i].IsOccupied == want {
			continue
		}
		err := tx.Model(&tables[i]).Updates(map[string]interface{}{
			"is_occupied":            want,
			"occupancy_manual_until": nil,
		}).Error
		if err != nil {
			return nil, utils.Internal("failed to update table occupancy", err)
		}
		tables[i].IsOccupied = want
		tables[i].ManualUntil = nil
		changed = append(changed, tables[i])
	}
	return changed, nil
}
