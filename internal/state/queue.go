package state

import (
	"context"
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/chants/internal/db"
	"github.com/llehouerou/chants/internal/playlist"
)

// getQueue returns the saved queue, or nil if none was saved.
func getQueue(db *sql.DB) (*playlist.Snapshot, error) {
	var currentID sql.NullString
	var repeat string
	var shuffle bool
	row := db.QueryRow(`SELECT current_id, repeat_mode, shuffle FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentID, &repeat, &shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved queue
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT track_id, title, artist, artwork_url, fallback_image_url, source_url, duration_ms
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var t playlist.Track
		var artist, artwork, fallback, url sql.NullString
		var duration sql.NullInt64

		if err := rows.Scan(&t.ID, &t.Title, &artist, &artwork, &fallback, &url, &duration); err != nil {
			return nil, err
		}

		t.Artist = dbutil.NullStringValue(artist)
		t.ArtworkURL = dbutil.NullStringValue(artwork)
		t.FallbackImageURL = dbutil.NullStringValue(fallback)
		t.URL = dbutil.NullStringValue(url)
		t.Duration = dbutil.Millis(duration)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	shuffled, err := getShuffled(db)
	if err != nil {
		return nil, err
	}

	return &playlist.Snapshot{
		Tracks:     tracks,
		ShuffleIDs: shuffled,
		CurrentID:  dbutil.NullStringValue(currentID),
		Repeat:     playlist.ParseRepeatMode(repeat),
		Shuffle:    shuffle,
	}, nil
}

func getShuffled(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT track_id FROM queue_shuffled ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func saveQueue(ctx context.Context, sqlDB *sql.DB, s playlist.Snapshot) error {
	return dbutil.WithTx(ctx, sqlDB, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM queue_shuffled`); err != nil {
			return err
		}

		var currentID any
		if s.CurrentID != "" {
			currentID = s.CurrentID
		}
		_, err := tx.Exec(`
			INSERT INTO queue_state (id, current_id, repeat_mode, shuffle)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_id = excluded.current_id,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle
		`, currentID, s.Repeat.String(), s.Shuffle)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, track_id, title, artist, artwork_url, fallback_image_url, source_url, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range s.Tracks {
			_, err = stmt.Exec(i, t.ID, t.Title, t.Artist, t.ArtworkURL, t.FallbackImageURL, t.URL,
				dbutil.ToMillis(t.Duration))
			if err != nil {
				return err
			}
		}

		for i, id := range s.ShuffleIDs {
			if _, err := tx.Exec(`INSERT INTO queue_shuffled (position, track_id) VALUES (?, ?)`, i, id); err != nil {
				return err
			}
		}
		return nil
	})
}
