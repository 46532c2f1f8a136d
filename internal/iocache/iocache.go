// Package iocache persists analysis history outside the core pipeline.
package iocache

import (
	"sync"

	"github.com/huangsam/repoviz/internal/contract"
)

// HistoryStoreManager holds the process-wide history store.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

var _ contract.HistoryManager = &HistoryStoreManager{} // Compile-time check

// GetHistoryStore returns the history store, or nil when tracking is disabled.
func (m *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	m.RLock()
	defer m.RUnlock()
	return m.history
}
