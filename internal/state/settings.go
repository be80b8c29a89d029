package state

import (
	"database/sql"
	"errors"
)

// GetCacheLimit returns the cache size limit chosen at runtime, or 0 when
// none was saved and the configured value applies.
func (m *Manager) GetCacheLimit() (int, error) {
	var mb sql.NullInt64
	err := m.db.QueryRow(`SELECT cache_max_mb FROM settings WHERE id = 1`).Scan(&mb)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(mb.Int64), nil
}

// SaveCacheLimit persists the cache size limit in megabytes.
func (m *Manager) SaveCacheLimit(mb int) error {
	_, err := m.db.Exec(`
		INSERT INTO settings (id, cache_max_mb)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET
			cache_max_mb = excluded.cache_max_mb
	`, mb)
	return err
}
