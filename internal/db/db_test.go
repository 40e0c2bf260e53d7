package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyURL(t *testing.T) {
	for _, url := range []string{"", "   "} {
		db, err := Connect(context.Background(), url)
		assert.Nil(t, db)
		assert.EqualError(t, err, "DATABASE_URL is empty")
	}
}

func TestMigrations_Order(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00001_ai_usage.sql",
		"00002_rate_limit_windows.sql",
		"00003_suggestion_cache.sql",
	}, names)
}

func TestMigrations_HaveUpAndDown(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			body, err := fs.ReadFile(migrationFiles, MigrationsDir+"/"+name)
			require.NoError(t, err)

			sql := string(body)
			up := strings.Index(sql, "-- +goose Up")
			down := strings.Index(sql, "-- +goose Down")
			require.GreaterOrEqual(t, up, 0, "missing Up section")
			require.Greater(t, down, up, "Down section must follow Up")
			assert.Contains(t, sql[down:], "DROP TABLE")
		})
	}
}

func TestRunMigrations_NilDatabase(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil))
}
