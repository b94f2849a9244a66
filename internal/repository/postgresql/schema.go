package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id           TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS employee_aliases (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		alias       TEXT NOT NULL,
		PRIMARY KEY (employee_id, alias)
	)`,
	`CREATE TABLE IF NOT EXISTS leave_records (
		id            BIGSERIAL PRIMARY KEY,
		employee_name TEXT NOT NULL,
		kind          TEXT NOT NULL,
		start_date    DATE NOT NULL,
		end_date      DATE NOT NULL,
		start_time    TIME,
		end_time      TIME,
		detail        TEXT
	)`,
}

// Migrate creates the alias and leave tables when missing.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
