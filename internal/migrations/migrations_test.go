package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kwezi/villagequest/internal/database"
	"github.com/kwezi/villagequest/internal/migrations"
)

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err, "opening database")
	defer db.Close()

	require.NoError(t, migrations.Run(ctx, db), "running migrations")

	var name string
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", "kv",
	).Scan(&name)
	require.NoError(t, err, "table kv not found")
}

func TestMigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err, "opening database")
	defer db.Close()

	require.NoError(t, migrations.Run(ctx, db), "first run")
	require.NoError(t, migrations.Run(ctx, db), "second run (should be no-op)")
}
