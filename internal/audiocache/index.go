package audiocache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/chants/internal/db"
)

// Entry is one row of the access-time index.
type Entry struct {
	Key        string // file name inside the cache directory
	URL        string
	Path       string
	Size       int64
	LastAccess time.Time
}

// Index is the authoritative record of cache membership and access times,
// stored in the audio_cache_index table.
type Index struct {
	db *sql.DB
}

// NewIndex creates an Index over an opened database. The schema is owned by
// the state package.
func NewIndex(db *sql.DB) *Index {
	return &Index{db: db}
}

// Touch records an access for key, inserting the row if needed.
// A zero size keeps the previously recorded size.
func (i *Index) Touch(e Entry) error {
	at := e.LastAccess.UnixNano()
	_, err := i.db.Exec(`
		INSERT INTO audio_cache_index (key, url, path, size, last_access, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			url = excluded.url,
			path = excluded.path,
			size = CASE WHEN excluded.size > 0 THEN excluded.size ELSE audio_cache_index.size END,
			last_access = excluded.last_access
	`, e.Key, e.URL, e.Path, e.Size, at, at)
	return err
}

// LastAccess returns the access time of every indexed key.
func (i *Index) LastAccess() (map[string]time.Time, error) {
	rows, err := i.db.Query(`SELECT key, last_access FROM audio_cache_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]time.Time)
	for rows.Next() {
		var key string
		var at int64
		if err := rows.Scan(&key, &at); err != nil {
			return nil, err
		}
		result[key] = time.Unix(0, at)
	}
	return result, rows.Err()
}

// get returns the entry for key, or nil if it is not indexed.
func (i *Index) get(key string) (*Entry, error) {
	var e Entry
	var url, path sql.NullString
	var at int64
	err := i.db.QueryRow(`
		SELECT key, url, path, size, last_access FROM audio_cache_index WHERE key = ?
	`, key).Scan(&e.Key, &url, &path, &e.Size, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.URL = dbutil.NullStringValue(url)
	e.Path = dbutil.NullStringValue(path)
	e.LastAccess = time.Unix(0, at)
	return &e, nil
}

// Entries returns all indexed entries, least recently accessed first.
func (i *Index) Entries() ([]Entry, error) {
	rows, err := i.db.Query(`
		SELECT key, url, path, size, last_access
		FROM audio_cache_index
		ORDER BY last_access ASC, key ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var url, path sql.NullString
		var at int64
		if err := rows.Scan(&e.Key, &url, &path, &e.Size, &at); err != nil {
			return nil, err
		}
		e.URL = dbutil.NullStringValue(url)
		e.Path = dbutil.NullStringValue(path)
		e.LastAccess = time.Unix(0, at)
		result = append(result, e)
	}
	return result, rows.Err()
}

// Delete removes key from the index.
func (i *Index) Delete(key string) error {
	_, err := i.db.Exec(`DELETE FROM audio_cache_index WHERE key = ?`, key)
	return err
}

// DeleteMany removes several keys in one transaction.
func (i *Index) DeleteMany(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return dbutil.WithTx(context.Background(), i.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`DELETE FROM audio_cache_index WHERE key = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, k := range keys {
			if _, err := stmt.Exec(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes every row.
func (i *Index) Clear() error {
	_, err := i.db.Exec(`DELETE FROM audio_cache_index`)
	return err
}
