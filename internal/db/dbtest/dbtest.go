// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ahsanfayaz52/noteservice/internal/db"
)

// TB is the subset of testing.TB (and rapid.T) the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Open returns a migrated in-memory SQLite database that is closed when t
// finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	conn := open(t)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// OpenUnmanaged is Open for callers without Cleanup, such as rapid
// iterations. The caller closes the database.
func OpenUnmanaged(t TB) *sql.DB {
	t.Helper()
	return open(t)
}

func open(t TB) *sql.DB {
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(ctx, conn, db.DriverSQLite); err != nil {
		_ = conn.Close()
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// CreateUser inserts a user row and returns its id.
func CreateUser(t TB, conn *sql.DB, email string) int64 {
	t.Helper()
	res, err := conn.Exec(
		"INSERT INTO users (email, password, role, created_at) VALUES (?, ?, 'user', 0)", email, "x")
	if err != nil {
		t.Fatalf("insert user %s: %v", email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insert user %s: %v", email, err)
	}
	return id
}
