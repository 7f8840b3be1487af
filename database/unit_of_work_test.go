package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:uow_%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func tableCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Table{}).Count(&n).Error)
	return n
}

func insertTable(number int) Operation {
	return func(tx *gorm.DB) error {
		return tx.Create(&models.Table{Number: number, Seats: 2}).Error
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)
	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasColumn(&models.Booking{}, "reserved_at"))
}

func TestCommitAppliesAllOperations(t *testing.T) {
	db := openTestDB(t)
	called := 0

	err := NewUnitOfWork(db).
		Do(insertTable(1)).
		Do(insertTable(2)).
		AfterCommit(func() { called++ }).
		Commit(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, tableCount(t, db))
	assert.Equal(t, 1, called)
}

func TestCommitRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	called := false

	err := NewUnitOfWork(db).
		Do(insertTable(1)).
		Do(func(tx *gorm.DB) error { return utils.NotFound("customer not found") }).
		AfterCommit(func() { called = true }).
		Commit(context.Background())

	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	assert.Equal(t, "customer not found", err.Error())
	assert.Zero(t, tableCount(t, db))
	assert.False(t, called)
}

func TestCommitWrapsPlainErrors(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("disk on fire")

	err := Run(context.Background(), db, func(tx *gorm.DB) error { return boom })
	require.Error(t, err)
	assert.Equal(t, utils.KindInternal, utils.KindOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestCommitRecoversPanics(t *testing.T) {
	db := openTestDB(t)

	var err error
	assert.NotPanics(t, func() {
		err = NewUnitOfWork(db).
			Do(insertTable(1)).
			Do(func(tx *gorm.DB) error { panic("unexpected") }).
			Commit(context.Background())
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindInternal, utils.KindOf(err))
	assert.Zero(t, tableCount(t, db))

	// koneksi masih bisa dipakai setelah panic
	require.NoError(t, Run(context.Background(), db, insertTable(3)))
	assert.EqualValues(t, 1, tableCount(t, db))
}

func TestAfterCommitPanicDoesNotFailCommit(t *testing.T) {
	db := openTestDB(t)
	second := false

	err := NewUnitOfWork(db).
		Do(insertTable(1)).
		AfterCommit(func() { panic("listener bug") }).
		AfterCommit(func() { second = true }).
		Commit(context.Background())
	require.NoError(t, err)
	assert.True(t, second)
	assert.EqualValues(t, 1, tableCount(t, db))
}

func TestCommitResetsQueue(t *testing.T) {
	db := openTestDB(t)
	uow := NewUnitOfWork(db).Do(insertTable(1))
	require.NoError(t, uow.Commit(context.Background()))
	// operasi yang sama tidak dijalankan dua kali
	require.NoError(t, uow.Commit(context.Background()))
	assert.EqualValues(t, 1, tableCount(t, db))
}

func TestDuplicateKeyIsTranslated(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(context.Background(), db, insertTable(1)))

	err := Run(context.Background(), db, insertTable(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
