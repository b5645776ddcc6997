package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/samirrijal/sketchroute/internal/core/ports"
)

// Cache implements ports.CacheService with an in-process bounded LRU.
// Entries expire after the TTL given to New; per-call TTLs are ignored.
type Cache struct {
	lru *expirable.LRU[string, []byte]
}

// New creates a cache holding at most size entries for ttl each.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 512
	}
	return &Cache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get retrieves a value by key.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (c *Cache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.lru.Add(key, append([]byte(nil), value...))
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
