package database

import (
	"context"
	"fmt"

	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	db         *DB
	eventRepo  contract.EventRepo
	tenantRepo contract.TenantRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	return &instance{
		db:         db,
		eventRepo:  newEventRepo(db.conn),
		tenantRepo: newTenantRepo(db.conn),
	}
}

// repoInstancesWithConn creates repository instances with custom dbConn
func repoInstancesWithConn(conn dbConn) *instance {
	return &instance{
		eventRepo:  newEventRepo(conn),
		tenantRepo: newTenantRepo(conn),
	}
}

// Event returns the event repository
func (i *instance) Event() contract.EventRepo {
	return i.eventRepo
}

// Tenant returns the tenant repository
func (i *instance) Tenant() contract.TenantRepo {
	return i.tenantRepo
}

// WithTransaction executes a function within a database transaction
func (i *instance) WithTransaction(ctx context.Context, fn func(dm contract.DataManager) error) error {
	if i.db == nil {
		return fmt.Errorf("nested transactions are not supported")
	}

	tx, err := i.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(repoInstancesWithConn(tx))
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
