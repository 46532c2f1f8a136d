package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repoviz/internal/parquet"
	"github.com/huangsam/repoviz/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHistory(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(testLocator, time.Now(), map[string]any{"extension": ".java"})
	require.NoError(t, err)
	require.NoError(t, store.RecordFiles(runID, testRecords()))
	require.NoError(t, store.EndRun(runID, time.Now(), "completed", 2, 100))

	base := filepath.Join(t.TempDir(), "export")
	require.NoError(t, ExportHistory(store, base))

	runs, err := pq.ReadFile[parquet.HistoryRun](base + runsExportSuffix)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, "completed", runs[0].Outcome)

	files, err := pq.ReadFile[parquet.HistoryFile](base + filesExportSuffix)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "src/A.java", files[0].FilePath)
	assert.Equal(t, "high", files[1].ColorCategory)
}

func TestExportHistory_Errors(t *testing.T) {
	err := ExportHistory(nil, "out")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "history tracking is disabled")

	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = ExportHistory(store, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")

	err = ExportHistory(store, filepath.Join(t.TempDir(), "empty"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no history data found")
}
