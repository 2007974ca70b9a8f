package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn, DriverSQLite))
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))

	var n int
	require.NoError(t, conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'notes')").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestMigrateUnknownDriver(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	assert.Error(t, Migrate(ctx, conn, "postgres"))
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), " ")
	assert.Error(t, err)
}

func TestIsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))

	insert := "INSERT INTO users (email, password, created_at) VALUES ('a@b.com', 'x', 0)"
	_, err = conn.Exec(insert)
	require.NoError(t, err)
	_, err = conn.Exec(insert)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
	assert.False(t, IsDuplicateKey(assert.AnError))
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))

	_, err = conn.Exec("INSERT INTO notes (user_id, title, content, created_at, updated_at) VALUES (99, 't', 'c', 0, 0)")
	assert.Error(t, err)
}
