package catalog

import (
	"context"
	"sync"
	"time"
)

// Source is anything that can load catalog entries.
type Source interface {
	All(ctx context.Context) ([]Entry, error)
}

// Cache keeps the catalog in memory with a TTL. It is constructed per process
// and passed by reference; the clock is injected so expiry is testable.
type Cache struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries []Entry
	loaded  time.Time
}

func NewCache(src Source, ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{src: src, ttl: ttl, now: now}
}

// All returns the cached catalog, reloading it when stale. A reload failure
// with a previously loaded catalog falls back to the stale copy.
func (c *Cache) All(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries != nil && c.now().Sub(c.loaded) < c.ttl {
		return c.entries, nil
	}

	entries, err := c.src.All(ctx)
	if err != nil {
		if c.entries != nil {
			return c.entries, nil
		}
		return nil, err
	}
	c.entries = entries
	c.loaded = c.now()
	return c.entries, nil
}
