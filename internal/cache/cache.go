package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Flush drops every entry
	Flush()

	// Size returns the current number of items in the cache
	Size() int
}

// TTL is a typed Cache backed by go-cache. Entries expire after the
// configured TTL; a non-positive TTL disables caching entirely.
type TTL[T any] struct {
	store    *gocache.Cache
	disabled bool
}

var _ Cache[int] = (*TTL[int])(nil)

// NewTTL creates a cache whose entries live for ttl. Expired entries are
// purged by go-cache's janitor every 2*ttl.
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	if ttl <= 0 {
		return &TTL[T]{store: gocache.New(gocache.NoExpiration, 0), disabled: true}
	}
	return &TTL[T]{store: gocache.New(ttl, 2*ttl)}
}

func (c *TTL[T]) Get(key string) (T, bool) {
	var zero T
	if c.disabled {
		return zero, false
	}
	v, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	data, ok := v.(T)
	if !ok {
		return zero, false
	}
	return data, true
}

func (c *TTL[T]) Set(key string, data T) {
	if c.disabled {
		return
	}
	c.store.SetDefault(key, data)
}

func (c *TTL[T]) Delete(key string) {
	c.store.Delete(key)
}

func (c *TTL[T]) Flush() {
	c.store.Flush()
}

func (c *TTL[T]) Size() int {
	return c.store.ItemCount()
}
