package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, n := range []int{1, 2, 3} {
		_, err := CreateTable(db, models.TableCreate{Number: ptr(n), Seats: n * 2})
		require.NoError(t, err)
	}
	for _, id := range []string{"c1", "c2"} {
		_, err := CreateCustomer(db, models.CustomerCreate{
			IDCustomer: id,
			Name:       strings.ToUpper(id),
			Email:      id + "@example.com",
		})
		require.NoError(t, err)
	}
}

func bookingCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&n).Error)
	return n
}

func TestCreateBookingUnknownTableNeverWrites(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	for _, table := range []int{0, -1, 4, 99} {
		for _, customer := range []string{"c1", "c2", "ghost"} {
			_, err := CreateBooking(db, models.BookingCreate{TableNumber: ptr(table), CustomerID: customer, Time: "2024-01-01T20:00:00"})
			require.Error(t, err)
			assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
			assert.Equal(t, "table not found", err.Error())
		}
	}
	assert.Zero(t, bookingCount(t, db))
}

func TestCreateBookingUnknownCustomerNeverWrites(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	for _, customer := range []string{"", "ghost", "C1", "c1 "} {
		_, err := CreateBooking(db, models.BookingCreate{TableNumber: ptr(1), CustomerID: customer, Time: "2024-01-01T20:00:00"})
		require.Error(t, err)
		assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
		assert.Equal(t, "customer not found", err.Error())
	}
	assert.Zero(t, bookingCount(t, db))
}

func TestCreateBookingStoresReferences(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	for _, table := range []int{1, 2, 3} {
		for _, customer := range []string{"c1", "c2"} {
			view, err := CreateBooking(db, models.BookingCreate{TableNumber: ptr(table), CustomerID: customer, Time: "2024-01-01 20:00"})
			require.NoError(t, err)
			assert.Equal(t, strings.ToUpper(customer), view.CustomerName)

			stored, err := FindBooking(db, view.ID)
			require.NoError(t, err)
			assert.Equal(t, table, stored.TableNumber)
			assert.Equal(t, customer, stored.CustomerID)
		}
	}
	assert.EqualValues(t, 6, bookingCount(t, db))
}

func TestCreateBookingBadTime(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	_, err := CreateBooking(db, models.BookingCreate{TableNumber: ptr(1), CustomerID: "c1", Time: "01/02/2024"})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	assert.Zero(t, bookingCount(t, db))
}

func TestUpdateBookingOnlyTouchesSuppliedFields(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	view, err := CreateBooking(db, models.BookingCreate{TableNumber: ptr(1), CustomerID: "c1", Time: "2024-01-01T20:00:00Z"})
	require.NoError(t, err)

	patch, err := ParseBookingUpdate(models.BookingUpdate{})
	require.NoError(t, err)
	updated, err := UpdateBooking(db, view.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, *view, *updated)

	newTime := "2024-01-02T21:15:00Z"
	patch, err = ParseBookingUpdate(models.BookingUpdate{Time: &newTime})
	require.NoError(t, err)
	updated, err = UpdateBooking(db, view.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TableNumber)
	assert.Equal(t, "c1", updated.CustomerID)
	assert.Equal(t, newTime, updated.Time)

	table := 3
	patch, err = ParseBookingUpdate(models.BookingUpdate{TableNumber: &table})
	require.NoError(t, err)
	updated, err = UpdateBooking(db, view.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TableNumber)
	assert.Equal(t, newTime, updated.Time)
}

func TestUpdateBookingUnknownReferenceLeavesRow(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	view, err := CreateBooking(db, models.BookingCreate{TableNumber: ptr(2), CustomerID: "c2", Time: "2024-01-01T20:00:00Z"})
	require.NoError(t, err)

	ghost := "ghost"
	_, err = UpdateBooking(db, view.ID, models.BookingPatch{CustomerID: &ghost})
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	missing := 77
	_, err = UpdateBooking(db, view.ID, models.BookingPatch{TableNumber: &missing})
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	stored, err := FindBooking(db, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TableNumber)
	assert.Equal(t, "c2", stored.CustomerID)
}

func TestDeleteMissingEntitiesHasNoSideEffects(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	_, err := CreateBooking(db, models.BookingCreate{TableNumber: ptr(1), CustomerID: "c1", Time: "2024-01-01T20:00:00Z"})
	require.NoError(t, err)

	_, err = DeleteBooking(db, 999)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	_, err = DeleteTable(db, 999)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	_, err = DeleteCustomer(db, "ghost")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	tables, err := ListTables(db)
	require.NoError(t, err)
	assert.Len(t, tables, 3)
	customers, err := ListCustomers(db)
	require.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.EqualValues(t, 1, bookingCount(t, db))
}

func TestCreateTableConflictKeepsExistingRow(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	_, err := CreateTable(db, models.TableCreate{Number: ptr(2), Seats: 12})
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))

	table, err := FindTable(db, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Seats)
}

func TestUpdateCustomerOnlyTouchesSuppliedFields(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	tel := "555-0199"
	customer, err := UpdateCustomer(db, "c1", models.CustomerUpdate{Tel: &tel})
	require.NoError(t, err)
	assert.Equal(t, "C1", customer.Name)
	assert.Equal(t, "c1@example.com", customer.Email)
	require.NotNil(t, customer.Tel)
	assert.Equal(t, tel, *customer.Tel)

	taken := "c2@example.com"
	_, err = UpdateCustomer(db, "c1", models.CustomerUpdate{Email: &taken})
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))

	// email sendiri boleh dikirim ulang
	own := "c1@example.com"
	_, err = UpdateCustomer(db, "c1", models.CustomerUpdate{Email: &own})
	assert.NoError(t, err)
}

func TestCreateBookingInsideRolledBackUnit(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	uow := database.NewUnitOfWork(db).
		Do(func(tx *gorm.DB) error {
			_, err := CreateBooking(tx, models.BookingCreate{TableNumber: ptr(1), CustomerID: "c1", Time: "2024-01-01T20:00:00Z"})
			return err
		}).
		Do(func(tx *gorm.DB) error {
			_, err := CreateBooking(tx, models.BookingCreate{TableNumber: ptr(42), CustomerID: "c1", Time: "2024-01-01T20:00:00Z"})
			return err
		})
	err := uow.Commit(context.Background())
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	assert.Zero(t, bookingCount(t, db))
}

func TestParseBookingUpdateTime(t *testing.T) {
	value := "2024-06-01T08:00:00+07:00"
	patch, err := ParseBookingUpdate(models.BookingUpdate{Time: &value})
	require.NoError(t, err)
	require.NotNil(t, patch.Time)
	assert.True(t, patch.Time.Equal(time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)))

	bad := "june"
	_, err = ParseBookingUpdate(models.BookingUpdate{Time: &bad})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}
