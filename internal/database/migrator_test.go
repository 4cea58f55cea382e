// Package database provides database connectivity and management for the publication service.
package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewMigrator_Validation tests the input validation for NewMigrator.
func TestNewMigrator_Validation(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("fails with nil database", func(t *testing.T) {
		migrator, err := NewMigrator(nil, "/some/path", logger)
		assert.Error(t, err)
		assert.Nil(t, migrator)
		assert.Contains(t, err.Error(), "database is required")
	})

	t.Run("fails with nil pool", func(t *testing.T) {
		db := &DB{pool: nil}
		migrator, err := NewMigrator(db, "/some/path", logger)
		assert.Error(t, err)
		assert.Nil(t, migrator)
		assert.Contains(t, err.Error(), "database pool not initialized")
	})

	t.Run("fails with empty migrations path", func(t *testing.T) {
		if testing.Short() {
			t.Skip("Skipping integration test in short mode")
		}

		db := setupTestDB(t)
		defer db.Close()

		migrator, err := NewMigrator(db, "", logger)
		assert.Error(t, err)
		assert.Nil(t, migrator)
		assert.Contains(t, err.Error(), "migrations path is required")
	})

	t.Run("fails with invalid migrations path", func(t *testing.T) {
		if testing.Short() {
			t.Skip("Skipping integration test in short mode")
		}

		db := setupTestDB(t)
		defer db.Close()

		migrator, err := NewMigrator(db, "/nonexistent/path", logger)
		assert.Error(t, err)
		assert.Nil(t, migrator)
		assert.Contains(t, err.Error(), "migrations path validation failed")
	})
}

// TestMigrator_UpAndVersion exercises Up and Version against a live database.
func TestMigrator_UpAndVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	logger := zerolog.Nop()
	migrationsPath := getMigrationsPath(t)

	migrator, err := NewMigrator(db, migrationsPath, logger)
	require.NoError(t, err)
	defer migrator.Close()

	t.Run("up applies or confirms migrations", func(t *testing.T) {
		err := migrator.Up()
		assert.NoError(t, err)
	})

	t.Run("returns current version", func(t *testing.T) {
		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.False(t, dirty, "migration should not be in dirty state")
		assert.GreaterOrEqual(t, version, uint(1))
	})

	t.Run("steps with no pending migrations returns nil", func(t *testing.T) {
		err := migrator.Steps(1)
		assert.NoError(t, err)
	})
}

// TestMigrator_Close tests the Close method.
func TestMigrator_Close(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	logger := zerolog.Nop()
	migrationsPath := getMigrationsPath(t)

	migrator, err := NewMigrator(db, migrationsPath, logger)
	require.NoError(t, err)

	t.Run("close successfully", func(t *testing.T) {
		err := migrator.Close()
		assert.NoError(t, err)
	})
}

// getMigrationsPath returns the path to the migrations directory.
func getMigrationsPath(t *testing.T) string {
	t.Helper()

	// Get current working directory
	cwd, err := os.Getwd()
	require.NoError(t, err)

	// Navigate from internal/database to project root's migrations
	migrationsPath := filepath.Join(cwd, "..", "..", "migrations")

	// Check if path exists
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		t.Skipf("Skipping test: migrations directory not found at %s", migrationsPath)
	}

	return migrationsPath
}
