// Package state persists the application state in a local sqlite database.
package state

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/chants/internal/playlist"
)

const (
	appName      = "chants"
	dbFileName   = "chants.db"
	saveDebounce = 500 * time.Millisecond
	flushTimeout = 5 * time.Second
)

type Manager struct {
	db     *sql.DB
	logger *slog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *playlist.Snapshot
}

// Open opens the database at path, or at the default location under the
// xdg data dir when path is empty, and initializes the schema.
func Open(path string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, logger: logger}, nil
}

// DefaultPath returns the database location under the xdg data dir.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Close flushes a pending queue save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := saveQueue(ctx, m.db, *pending); err != nil {
			m.logger.Warn("queue flush failed", "err", err)
		}
		cancel()
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

func (m *Manager) GetQueue() (*playlist.Snapshot, error) {
	return getQueue(m.db)
}

// SaveQueue schedules a save of s. Saves within the debounce window
// coalesce into the last one.
func (m *Manager) SaveQueue(s playlist.Snapshot) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &s

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveQueue(context.Background(), m.db, *pending); err != nil {
				m.logger.Warn("queue save failed", "err", err)
			}
		}
	})
}
