// Package sqlite holds the schema of the tenant registry and the event store.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/GuiaBolso/darwin"
	"github.com/diegoclair/sqlmigrator"
)

const migrationsDir = "sql"

//go:embed sql/*.sql
var migrations embed.FS

// Migrate applies the embedded migrations in file-name order. Already applied
// versions are skipped, so it is safe to call on every start.
func Migrate(db *sql.DB) error {
	m := sqlmigrator.New(db, darwin.SqliteDialect{})

	if err := m.Migrate(migrations, migrationsDir); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}
