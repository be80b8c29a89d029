package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS audio_cache_index (
			key TEXT PRIMARY KEY,
			url TEXT,
			path TEXT,
			size INTEGER NOT NULL DEFAULT 0,
			last_access INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_audio_cache_last_access ON audio_cache_index(last_access);

		CREATE TABLE IF NOT EXISTS queue_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_id TEXT,
			repeat_mode TEXT NOT NULL DEFAULT 'off',
			shuffle INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS queue_tracks (
			position INTEGER PRIMARY KEY,
			track_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			artwork_url TEXT,
			fallback_image_url TEXT,
			source_url TEXT,
			duration_ms INTEGER
		);

		CREATE TABLE IF NOT EXISTS queue_shuffled (
			position INTEGER PRIMARY KEY,
			track_id TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			cache_max_mb INTEGER
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
