package iocache

import (
	"time"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(loc schema.RepositoryLocator, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(loc, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordFiles implements the HistoryStore interface.
func (m *MockHistoryStore) RecordFiles(runID int64, records []schema.FileRecord) error {
	args := m.Called(runID, records)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, outcome string, totalFiles int, maxLineCount int) error {
	args := m.Called(runID, endTime, outcome, totalFiles, maxLineCount)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.HistoryRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.HistoryRunRecord)
	return runs, args.Error(1)
}

// GetAllFileRecords implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllFileRecords() ([]schema.HistoryFileRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.HistoryFileRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
