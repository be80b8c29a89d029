package state

import (
	"database/sql"
	"sync"

	"github.com/llehouerou/chants/internal/playlist"
)

// Mock is a test double for Manager.
type Mock struct {
	mu         sync.Mutex
	queue      *playlist.Snapshot
	saves      int
	cacheLimit int
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveQueue(s playlist.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = &s
	m.saves++
}

func (m *Mock) GetQueue() (*playlist.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue, nil
}

func (m *Mock) GetCacheLimit() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheLimit, nil
}

func (m *Mock) SaveCacheLimit(mb int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheLimit = mb
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// Saves returns how many times SaveQueue was called.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
