package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/alramy/internal/config"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	database, err := Open(config.Database{Driver: config.DriverSQLite, URL: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, database))
	require.NoError(t, Migrate(ctx, database), "migrate is idempotent")

	var tables []string
	require.NoError(t, database.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	assert.Equal(t, []string{"categories", "comments", "posts", "users"}, tables)
}

func TestConnectRejectsBadDSN(t *testing.T) {
	_, err := Connect(config.Database{Driver: config.DriverPostgres, URL: "postgres://%zz"})
	assert.Error(t, err)
}
