package db

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Migrate creates the users and notes tables for driver if they do not exist.
func Migrate(ctx context.Context, conn *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverMySQL:
		stmts = mysqlSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
