package audiocache

import (
	"path/filepath"
	"sort"
	"time"
)

// Enforce evicts least recently accessed files until the cache fits under
// its ceiling and returns the evicted file names in eviction order.
//
// Files without a recorded access time go first. Ties are broken by name so
// the order is deterministic.
func (c *Cache) Enforce() []string {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	limit := c.maxBytes.Load()
	sizes, total := c.sizes()
	if total <= limit {
		return nil
	}

	access, err := c.index.LastAccess()
	if err != nil {
		c.logger.Warn("read access times", "err", err)
		access = map[string]time.Time{}
	}

	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ai, aj := access[names[i]], access[names[j]]
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return names[i] < names[j]
	})

	var evicted []string
	for _, name := range names {
		if total <= limit {
			break
		}
		// Newer files stay while an older one is still on disk.
		if err := c.fs.Remove(filepath.Join(c.dir, name)); err != nil {
			c.logger.Warn("evict file, stopping pass", "name", name, "err", err)
			break
		}
		if err := c.index.Delete(name); err != nil {
			c.logger.Warn("drop evicted index row", "name", name, "err", err)
		}
		total -= sizes[name]
		evicted = append(evicted, name)
	}

	c.logger.Info("evicted cache files",
		"count", len(evicted),
		"remaining_bytes", total,
		"limit_bytes", limit,
	)
	return evicted
}
