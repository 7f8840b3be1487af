package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservations/hub"
	"github.com/yeremiapane/restaurant-reservations/models"
)

type capture struct {
	mu     sync.Mutex
	events []string
	tables []models.Table
}

func (c *capture) Broadcast(event string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	if t, ok := data.(models.Table); ok {
		c.tables = append(c.tables, t)
	}
}

func TestSyncOccupancy(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	now := time.Date(2024, 1, 1, 20, 30, 0, 0, time.UTC)

	// meja 1: sedang berlangsung, meja 2: sudah lewat, meja 3: masih nanti
	for _, b := range []models.Booking{
		{TableNumber: 1, CustomerID: "c1", Time: now.Add(-30 * time.Minute)},
		{TableNumber: 2, CustomerID: "c2", Time: now.Add(-5 * time.Hour)},
		{TableNumber: 3, CustomerID: "c1", Time: now.Add(time.Hour)},
	} {
		b := b
		require.NoError(t, db.Create(&b).Error)
	}
	// flag lama tanpa hold ikut dikoreksi
	_, err := SetOccupancy(db, 2, true, time.Time{})
	require.NoError(t, err)

	changed, err := SyncOccupancy(db, now, 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Equal(t, 1, changed[0].Number)
	assert.True(t, changed[0].IsOccupied)
	assert.Equal(t, 2, changed[1].Number)
	assert.False(t, changed[1].IsOccupied)

	occupied, _, err := FilterTablesByOccupancy(db, true)
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, 1, occupied[0].Number)

	// kedua kali tidak ada perubahan
	changed, err = SyncOccupancy(db, now, 2*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestSyncOccupancyRespectsManualHold(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	now := time.Date(2024, 1, 1, 20, 30, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Booking{TableNumber: 3, CustomerID: "c1", Time: now.Add(-10 * time.Minute)}).Error)

	// walk-in di meja 1, meja 3 dikosongkan walau ada booking
	_, err := SetOccupancy(db, 1, true, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = SetOccupancy(db, 3, false, now.Add(time.Hour))
	require.NoError(t, err)

	changed, err := SyncOccupancy(db, now, 2*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, changed)

	table, err := FindTable(db, 1)
	require.NoError(t, err)
	assert.True(t, table.IsOccupied)
	require.NotNil(t, table.ManualUntil)
	assert.True(t, table.ManualUntil.Equal(now.Add(time.Hour)))

	// setelah hold habis monitor kembali mengikuti booking
	later := now.Add(90 * time.Minute)
	changed, err = SyncOccupancy(db, later, 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Equal(t, 1, changed[0].Number)
	assert.False(t, changed[0].IsOccupied)
	assert.Equal(t, 3, changed[1].Number)
	assert.True(t, changed[1].IsOccupied)

	table, err = FindTable(db, 1)
	require.NoError(t, err)
	assert.Nil(t, table.ManualUntil)
}

func TestOccupancyMonitorTickBroadcastsChanges(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	now := time.Date(2024, 1, 1, 20, 30, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Booking{TableNumber: 3, CustomerID: "c2", Time: now.Add(-time.Minute)}).Error)

	sink := &capture{}
	monitor := NewOccupancyMonitor(db, sink, time.Minute, time.Hour)
	monitor.Now = func() time.Time { return now }

	monitor.Tick(context.Background())
	require.Equal(t, []string{hub.EventTableUpdate}, sink.events)
	assert.Equal(t, 3, sink.tables[0].Number)
	assert.True(t, sink.tables[0].IsOccupied)

	monitor.Tick(context.Background())
	assert.Len(t, sink.events, 1)
}

func TestOccupancyMonitorStartStop(t *testing.T) {
	db := setupTestDB(t)

	disabled := NewOccupancyMonitor(db, hub.Discard{}, 0, time.Hour)
	disabled.Start()
	disabled.Stop()

	monitor := NewOccupancyMonitor(db, hub.Discard{}, 10*time.Millisecond, time.Hour)
	monitor.Start()
	time.Sleep(30 * time.Millisecond)
	monitor.Stop()
	// Stop dua kali aman
	monitor.Stop()
}
