package state

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llehouerou/chants/internal/playlist"
)

// setupTestDB creates an in-memory SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// A second connection would see a different in-memory database.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}

	return db
}

func testSnapshot() playlist.Snapshot {
	return playlist.Snapshot{
		Tracks: []playlist.Track{
			{
				ID: "kyrie", Title: "Kyrie", Artist: "Schola",
				ArtworkURL: "https://img.example.com/kyrie.jpg",
				URL:        "https://cdn.example.com/kyrie.mp3",
				Duration:   94500 * time.Millisecond,
			},
			{
				ID: "gloria", Title: "Gloria",
				FallbackImageURL: "https://img.example.com/default.jpg",
				URL:              "https://cdn.example.com/gloria.mp3",
			},
			{ID: "sanctus", Title: "Sanctus"},
		},
		ShuffleIDs: []string{"sanctus", "kyrie", "gloria"},
		CurrentID:  "gloria",
		Repeat:     playlist.RepeatAll,
		Shuffle:    true,
	}
}

func TestGetQueue_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	queue, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if queue != nil {
		t.Errorf("expected nil queue on empty db, got %+v", queue)
	}
}

func TestSaveAndGetQueue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	want := testSnapshot()
	if err := saveQueue(context.Background(), db, want); err != nil {
		t.Fatalf("saveQueue failed: %v", err)
	}

	got, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if got == nil {
		t.Fatal("getQueue returned nil after save")
	}

	if got.CurrentID != want.CurrentID {
		t.Errorf("CurrentID = %q, want %q", got.CurrentID, want.CurrentID)
	}
	if got.Repeat != want.Repeat {
		t.Errorf("Repeat = %v, want %v", got.Repeat, want.Repeat)
	}
	if got.Shuffle != want.Shuffle {
		t.Errorf("Shuffle = %v, want %v", got.Shuffle, want.Shuffle)
	}
	if len(got.Tracks) != len(want.Tracks) {
		t.Fatalf("expected %d tracks, got %d", len(want.Tracks), len(got.Tracks))
	}
	for i := range want.Tracks {
		if got.Tracks[i] != want.Tracks[i] {
			t.Errorf("track[%d] = %+v, want %+v", i, got.Tracks[i], want.Tracks[i])
		}
	}
	if len(got.ShuffleIDs) != 3 || got.ShuffleIDs[0] != "sanctus" || got.ShuffleIDs[2] != "gloria" {
		t.Errorf("ShuffleIDs = %v, want %v", got.ShuffleIDs, want.ShuffleIDs)
	}
}

func TestSaveQueue_ReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := saveQueue(context.Background(), db, testSnapshot()); err != nil {
		t.Fatalf("first saveQueue failed: %v", err)
	}

	next := playlist.Snapshot{
		Tracks: []playlist.Track{{ID: "agnus", Title: "Agnus Dei"}},
	}
	if err := saveQueue(context.Background(), db, next); err != nil {
		t.Fatalf("second saveQueue failed: %v", err)
	}

	got, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if len(got.Tracks) != 1 || got.Tracks[0].ID != "agnus" {
		t.Errorf("Tracks = %+v, want [agnus]", got.Tracks)
	}
	if len(got.ShuffleIDs) != 0 {
		t.Errorf("ShuffleIDs = %v, want none", got.ShuffleIDs)
	}
	if got.CurrentID != "" {
		t.Errorf("CurrentID = %q, want empty", got.CurrentID)
	}
	if got.Repeat != playlist.RepeatOff || got.Shuffle {
		t.Errorf("modes = %v/%v, want off/false", got.Repeat, got.Shuffle)
	}
}

func TestSaveQueue_RestoresIntoQueue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := saveQueue(context.Background(), db, testSnapshot()); err != nil {
		t.Fatalf("saveQueue failed: %v", err)
	}
	snap, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}

	q := playlist.NewQueue()
	q.Restore(*snap)

	if cur := q.Current(); cur == nil || cur.ID != "gloria" {
		t.Errorf("Current() = %v, want gloria", cur)
	}
	active := q.Active()
	if len(active) != 3 || active[0].ID != "sanctus" {
		t.Errorf("Active()[0] = %v, want the saved shuffled order", active)
	}
}

func TestCacheLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	mb, err := m.GetCacheLimit()
	if err != nil {
		t.Fatalf("GetCacheLimit failed: %v", err)
	}
	if mb != 0 {
		t.Errorf("GetCacheLimit() = %d on empty db, want 0", mb)
	}

	for _, want := range []int{250, 1000} {
		if err := m.SaveCacheLimit(want); err != nil {
			t.Fatalf("SaveCacheLimit(%d) failed: %v", want, err)
		}
		got, err := m.GetCacheLimit()
		if err != nil {
			t.Fatalf("GetCacheLimit failed: %v", err)
		}
		if got != want {
			t.Errorf("GetCacheLimit() = %d, want %d", got, want)
		}
	}
}

func TestManager_SaveQueue_FlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chants.db")

	m, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first := testSnapshot()
	m.SaveQueue(first)
	last := playlist.Snapshot{Tracks: []playlist.Track{{ID: "credo", Title: "Credo"}}, CurrentID: "credo"}
	m.SaveQueue(last)
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	got, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if got == nil || len(got.Tracks) != 1 || got.CurrentID != "credo" {
		t.Errorf("GetQueue() = %+v, want the last saved snapshot", got)
	}
}

func TestManager_SaveQueue_Debounced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chants.db")
	m, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	m.SaveQueue(testSnapshot())

	got, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if got != nil {
		t.Fatal("save happened before the debounce window elapsed")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ = m.GetQueue(); got != nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if got == nil || got.CurrentID != "gloria" {
		t.Errorf("GetQueue() = %+v after debounce, want saved snapshot", got)
	}
}

func TestManager_DB(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}
	if m.DB() != db {
		t.Error("DB() should return the underlying database")
	}
}

func TestSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := initSchema(db); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}
}
