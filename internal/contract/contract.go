// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/repoviz/schema"
)

// AccessProvider fetches directory listings and file contents from a hosted repository.
// This allows the pipeline to be tested without a network or a git executable.
type AccessProvider interface {
	// ListEntries returns the file paths directly under loc.Path, relative to the
	// repository root. It does not recurse and makes a single listing request.
	ListEntries(ctx context.Context, loc schema.RepositoryLocator) ([]string, error)

	// FetchContent returns the full text of the file at path.
	FetchContent(ctx context.Context, loc schema.RepositoryLocator, path string) (string, error)
}

// HistoryManager defines the interface for reaching the history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording completed analysis runs.
type HistoryStore interface {
	// BeginRun creates a new run row and returns its unique ID
	BeginRun(loc schema.RepositoryLocator, startTime time.Time, configParams map[string]any) (int64, error)

	// RecordFiles stores the finalized records of a run
	RecordFiles(runID int64, records []schema.FileRecord) error

	// EndRun updates the run with its outcome
	EndRun(runID int64, endTime time.Time, outcome string, totalFiles int, maxLineCount int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run in ID order
	GetAllRuns() ([]schema.HistoryRunRecord, error)

	// GetAllFileRecords returns every recorded file row ordered by run and path
	GetAllFileRecords() ([]schema.HistoryFileRecord, error)

	// Close closes the underlying connection
	Close() error
}
