package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_Unsupported(t *testing.T) {
	err := MigrateHistory("oracle", "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Run migration to latest version
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
	assert.True(t, tableExists(t, dbPath, analysisRunsTable))
	assert.True(t, tableExists(t, dbPath, fileRecordsTable))

	// Run migration again (should be a no-op)
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	// Step down to version 1, then roll everything back
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, tableExists(t, dbPath, analysisRunsTable))

	// Migrate back up to version 2
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 2))
	assert.True(t, tableExists(t, dbPath, analysisRunsTable))
}

func TestMigrateHistory_StoreCompatible(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "compat.db")
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
}

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return name == table
}
