package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("spotbot"),
		postgres.WithUsername("spotbot"),
		postgres.WithPassword("spotbot"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	conn, err := Open(dsn, PoolConfig{MaxOpenConns: 2})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return conn
}

func TestThemeCatalogFallsBackWhenEmpty(t *testing.T) {
	conn := startPostgres(t)

	themes, err := NewThemeCatalog(conn).Themes()

	require.NoError(t, err)
	assert.NotEmpty(t, themes)
}

func TestLoadThemesIsIdempotent(t *testing.T) {
	conn := startPostgres(t)
	path := filepath.Join(t.TempDir(), "themes.csv")
	require.NoError(t, os.WriteFile(path, []byte("theme,question\nNight Owls,What keeps you up?\nNight Owls,Best snack after midnight?\n"), 0o644))

	inserted, err := LoadThemes(conn, path)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	_, err = LoadThemes(conn, path)
	require.NoError(t, err)

	themes, err := NewThemeCatalog(conn).Themes()
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, "Night Owls", themes[0].Name)
	assert.Equal(t, []string{"What keeps you up?", "Best snack after midnight?"}, themes[0].Questions)
}
