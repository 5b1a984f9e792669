package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: enforce at most one purchasing information record per
	// device. Databases created before this index may hold duplicates; the
	// index creation fails loudly in that case instead of dropping rows.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_purchasing_information_device
	     ON purchasing_information(device_id)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
