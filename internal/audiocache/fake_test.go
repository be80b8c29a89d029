package audiocache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const mb = int64(bytesPerMB)

// setupTestDB creates an in-memory SQLite database with the index table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// A second connection would see a different in-memory database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audio_cache_index (
			key TEXT PRIMARY KEY,
			url TEXT,
			path TEXT,
			size INTEGER NOT NULL DEFAULT 0,
			last_access INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create tables: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// fakeFS is an in-memory storage.FileSystem whose downloads can be held open.
type fakeFS struct {
	mu        sync.Mutex
	files     map[string]int64
	downloads map[string]int
	gate      chan struct{} // when set, downloads block until closed
	status    int
	err       error
	size      int64
	failSize  map[string]bool
	failRm    map[string]bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:     make(map[string]int64),
		downloads: make(map[string]int),
		failSize:  make(map[string]bool),
		failRm:    make(map[string]bool),
		status:    200,
		size:      mb,
	}
}

func (f *fakeFS) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) Download(ctx context.Context, url, dest string) (int, error) {
	f.mu.Lock()
	f.downloads[url]++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if f.status >= 200 && f.status <= 299 {
		f.files[dest] = f.size
	}
	return f.status, nil
}

func (f *fakeFS) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRm[path] {
		return errors.New("remove: permission denied")
	}
	delete(f.files, path)
	return nil
}

func (f *fakeFS) List(dir string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for p := range f.files {
		if filepath.Dir(p) == dir {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeFS) Size(path string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSize[path] {
		return 0, errors.New("permission denied")
	}
	size, ok := f.files[path]
	if !ok {
		return 0, os.ErrNotExist
	}
	return size, nil
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	size, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return make([]byte, size), nil
}

func (f *fakeFS) WriteFile(path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = int64(len(data))
	return nil
}

func (f *fakeFS) MkdirAll(string) error { return nil }

func (f *fakeFS) put(path string, size int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = size
}

func (f *fakeFS) downloadCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads[url]
}

func (f *fakeFS) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
