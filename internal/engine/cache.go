// cache.go provides an in-memory cache of rendered output. This is the L1
// cache: it skips rendering and the Valkey round trip for hot pages.
// Entries are keyed by a fingerprint of the composed tree, so any edit to a
// page or to one of its templates produces a miss.
package engine

import (
	"log/slog"
	"sync"
)

// defaultL1Size bounds the number of entries kept in memory.
const defaultL1Size = 256

// entry is a cached render. It keeps the fields renderer.Output hides from
// JSON.
type entry struct {
	HTML         string `json:"html"`
	CSS          string `json:"css"`
	CacheControl string `json:"cache_control"`
}

// outputCache is a concurrency-safe in-memory cache of rendered output.
type outputCache struct {
	mu      sync.RWMutex
	max     int
	entries map[string]entry
}

// newOutputCache creates an empty cache holding at most max entries.
func newOutputCache(max int) *outputCache {
	if max <= 0 {
		max = defaultL1Size
	}
	return &outputCache{max: max, entries: make(map[string]entry)}
}

// get retrieves an entry. The bool is false on a miss.
func (c *outputCache) get(key string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// put stores an entry. When the cache is full it is cleared first.
func (c *outputCache) put(key string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.max {
		c.entries = make(map[string]entry)
		slog.Debug("render cache full, cleared", "max", c.max)
	}
	c.entries[key] = e
}

// len returns the number of cached entries.
func (c *outputCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// invalidateAll clears the entire cache.
func (c *outputCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	slog.Debug("render cache fully cleared")
}
