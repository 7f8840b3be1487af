package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

// Operation runs inside the unit of work's transaction. Returning an error
// rolls the whole unit back.
type Operation func(tx *gorm.DB) error

// UnitOfWork scopes one request's reads and writes to a single transaction.
// The transaction is always committed or rolled back before Commit returns.
type UnitOfWork struct {
	root *gorm.DB

	mu          sync.Mutex
	ops         []Operation
	afterCommit []func()
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{root: db}
}

// Do queues op for the next Commit.
func (u *UnitOfWork) Do(op Operation) *UnitOfWork {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ops = append(u.ops, op)
	return u
}

// AfterCommit registers cb to run once the transaction has committed.
func (u *UnitOfWork) AfterCommit(cb func()) *UnitOfWork {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.afterCommit = append(u.afterCommit, cb)
	return u
}

// Commit runs the queued operations in one transaction. Errors that are not
// already *utils.AppError come back as internal errors, and a panic inside
// an operation is rolled back and reported the same way.
func (u *UnitOfWork) Commit(ctx context.Context) (err error) {
	u.mu.Lock()
	ops := append([]Operation(nil), u.ops...)
	callbacks := append([]func(){}, u.afterCommit...)
	u.ops = nil
	u.afterCommit = nil
	u.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.Errorf("unit of work panicked: %v", r)
			err = utils.Internal("unexpected persistence failure", fmt.Errorf("panic: %v", r))
		}
	}()

	txErr := u.root.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return utils.Internal("persistence failure", txErr)
	}

	for _, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					utils.ErrorLogger.Errorf("after-commit callback panicked: %v", r)
				}
			}()
			cb()
		}()
	}
	return nil
}

// Run executes fn as a single-operation unit of work.
func Run(ctx context.Context, db *gorm.DB, fn Operation) error {
	return NewUnitOfWork(db).Do(fn).Commit(ctx)
}
