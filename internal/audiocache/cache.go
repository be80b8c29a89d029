// Package audiocache maps remote audio URLs to locally persisted files,
// downloads missing files in the background and keeps the cache directory
// under a size ceiling with least-recently-used eviction.
package audiocache

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/chants/internal/storage"
)

const (
	// DefaultMaxSizeMB is the eviction ceiling used when none is configured.
	DefaultMaxSizeMB = 500

	bytesPerMB = 1024 * 1024
)

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("audio cache closed")

// Options configures a Cache.
type Options struct {
	Dir                string
	MaxSizeMB          int
	DownloadTimeout    time.Duration
	DownloadsPerSecond float64 // 0 disables the start limiter
	Logger             *slog.Logger
	Now                func() time.Time
}

// Stats counts cache lookups made through PlayableURL.
type Stats struct {
	Hits   int64
	Misses int64
}

// Cache is the local content cache. It is safe for concurrent use.
type Cache struct {
	fs     storage.FileSystem
	index  *Index
	dir    string
	logger *slog.Logger
	now    func() time.Time
	coord  *Coordinator

	maxBytes atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64

	// evictMu serializes eviction passes.
	evictMu sync.Mutex
}

// New creates a cache rooted at opts.Dir together with its download
// coordinator.
func New(fs storage.FileSystem, index *Index, opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	maxMB := opts.MaxSizeMB
	if maxMB <= 0 {
		maxMB = DefaultMaxSizeMB
	}

	c := &Cache{
		fs:     fs,
		index:  index,
		dir:    opts.Dir,
		logger: logger.With("component", "audiocache"),
		now:    now,
	}
	c.maxBytes.Store(int64(maxMB) * bytesPerMB)
	c.coord = newCoordinator(c, coordinatorOptions{
		timeout:   opts.DownloadTimeout,
		perSecond: opts.DownloadsPerSecond,
		logger:    logger.With("component", "downloads"),
	})

	if err := fs.MkdirAll(c.dir); err != nil {
		c.logger.Warn("create cache dir", "dir", c.dir, "err", err)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Coordinator returns the download coordinator feeding this cache.
func (c *Cache) Coordinator() *Coordinator { return c.coord }

// ResolveLocalPath returns the local path for url. It does not touch disk.
func (c *Cache) ResolveLocalPath(url string) string {
	return filepath.Join(c.dir, Key(url))
}

// IsCached reports whether the local file for url exists. Any I/O failure
// counts as not cached.
func (c *Cache) IsCached(url string) bool {
	if url == "" {
		return false
	}
	return c.fs.Exists(c.ResolveLocalPath(url))
}

// PlayableURL returns the local path for url when it is cached, refreshing
// its access time. Otherwise it starts a background download and returns
// url unchanged so playback can stream while the file is fetched.
func (c *Cache) PlayableURL(url string) string {
	if url == "" {
		return url
	}

	path := c.ResolveLocalPath(url)
	if c.fs.Exists(path) {
		c.hits.Add(1)
		c.touch(url, path)
		return path
	}

	c.misses.Add(1)
	c.coord.DownloadInBackground(url)
	return url
}

// Preload starts background downloads for every url not yet cached.
func (c *Cache) Preload(urls ...string) {
	for _, u := range urls {
		if u == "" || c.IsCached(u) {
			continue
		}
		c.coord.DownloadInBackground(u)
	}
}

// Clear deletes all cached files and the access-time index.
func (c *Cache) Clear() {
	names, err := c.fs.List(c.dir)
	if err != nil {
		c.logger.Warn("list cache dir", "dir", c.dir, "err", err)
	}
	for _, name := range names {
		if err := c.fs.Remove(filepath.Join(c.dir, name)); err != nil {
			c.logger.Warn("remove cached file", "name", name, "err", err)
		}
	}
	if err := c.index.Clear(); err != nil {
		c.logger.Warn("clear cache index", "err", err)
	}
	c.logger.Info("cache cleared", "files", len(names))
}

// SizeBytes sums the sizes of all files in the cache directory. Unreadable
// entries count as zero.
func (c *Cache) SizeBytes() int64 {
	_, total := c.sizes()
	return total
}

// SizeMB returns SizeBytes in megabytes.
func (c *Cache) SizeMB() float64 {
	return float64(c.SizeBytes()) / bytesPerMB
}

// SetMaxSizeMB changes the eviction ceiling. It applies from the next
// eviction pass.
func (c *Cache) SetMaxSizeMB(n int) {
	if n <= 0 {
		return
	}
	c.maxBytes.Store(int64(n) * bytesPerMB)
}

// MaxSizeMB returns the eviction ceiling.
func (c *Cache) MaxSizeMB() int {
	return int(c.maxBytes.Load() / bytesPerMB)
}

// Stats returns hit/miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Reconcile drops index rows whose file no longer exists.
func (c *Cache) Reconcile() {
	entries, err := c.index.Entries()
	if err != nil {
		c.logger.Warn("read cache index", "err", err)
		return
	}

	var stale []string
	for _, e := range entries {
		if !c.fs.Exists(filepath.Join(c.dir, e.Key)) {
			stale = append(stale, e.Key)
		}
	}
	if err := c.index.DeleteMany(stale); err != nil {
		c.logger.Warn("drop stale index rows", "err", err)
		return
	}
	if len(stale) > 0 {
		c.logger.Info("reconciled cache index", "dropped", len(stale))
	}
}

// Close cancels in-flight downloads and waits for them to finish.
func (c *Cache) Close() error {
	c.coord.Close()
	return nil
}

// touch refreshes the access time of a cached file.
func (c *Cache) touch(url, path string) {
	size, err := c.fs.Size(path)
	if err != nil {
		size = 0
	}
	err = c.index.Touch(Entry{
		Key:        filepath.Base(path),
		URL:        url,
		Path:       path,
		Size:       size,
		LastAccess: c.now(),
	})
	if err != nil {
		c.logger.Warn("update access time", "url", url, "err", err)
	}
}

// commit records a completed download and enforces the size ceiling.
func (c *Cache) commit(url, path string) {
	c.touch(url, path)
	c.Enforce()
}

// sizes returns the size of every cache file and their total.
func (c *Cache) sizes() (map[string]int64, int64) {
	names, err := c.fs.List(c.dir)
	if err != nil {
		c.logger.Warn("list cache dir", "dir", c.dir, "err", err)
		return nil, 0
	}

	sizes := make(map[string]int64, len(names))
	var total int64
	for _, name := range names {
		size, err := c.fs.Size(filepath.Join(c.dir, name))
		if err != nil {
			size = 0
		}
		sizes[name] = size
		total += size
	}
	return sizes, total
}
