package teamdirectory

import (
	"sync"
	"time"

	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
)

type cacheEntry struct {
	meta      teammeta.Meta
	expiresAt time.Time
}

type inMemoryMetaCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
}

func newInMemoryMetaCache(ttl time.Duration, maxEntries int) *inMemoryMetaCache {
	return &inMemoryMetaCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *inMemoryMetaCache) Get(key string) (teammeta.Meta, bool) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return teammeta.Meta{}, false
	}
	if !entry.expiresAt.After(now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return teammeta.Meta{}, false
	}

	return entry.meta, true
}

func (c *inMemoryMetaCache) Set(key string, meta teammeta.Meta) {
	if c.ttl <= 0 {
		return
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictExpired(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOne()
		}
	}

	c.entries[key] = cacheEntry{
		meta:      meta,
		expiresAt: now.Add(c.ttl),
	}
}

func (c *inMemoryMetaCache) evictExpired(now time.Time) {
	for key, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, key)
		}
	}
}

func (c *inMemoryMetaCache) evictOne() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}
