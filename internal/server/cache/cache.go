// Package cache memoizes API lookups on top of patrickmn/go-cache. Entries
// expire after a TTL so a re-run of the index pipeline becomes visible
// without restarting the server.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a TTL cache keyed by request.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache whose entries live for ttl. Expired entries are
// purged every 2*ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

// Get returns a cached value.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Memo returns the value cached under key, calling compute on a miss.
// Errors are returned but never cached.
func (c *Cache) Memo(key string, compute func() (any, error)) (any, error) {
	if v, ok := c.store.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.store.Set(key, v, gocache.DefaultExpiration)
	return v, nil
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.store.Flush()
}

// ItemCount returns the number of entries, expired ones included until
// the next purge.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
