package live

import (
	"sync"
	"time"
)

// Cache holds the latest value of an integration. One instance is shared by the
// poller and every handler, so a new reader sees the previous value immediately.
// Writes are last-write-wins.
type Cache[T any] struct {
	mu        sync.RWMutex
	value     T
	ok        bool
	fetchedAt time.Time
	now       func() time.Time
}

func NewCache[T any]() *Cache[T] {
	return NewCacheWithClock[T](time.Now)
}

// NewCacheWithClock stamps writes and judges freshness with now.
func NewCacheWithClock[T any](now func() time.Time) *Cache[T] {
	return &Cache[T]{now: now}
}

func (c *Cache[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	c.ok = true
	c.fetchedAt = c.now()
	c.mu.Unlock()
}

// Get returns the cached value, when it was stored, and whether anything was stored.
func (c *Cache[T]) Get() (T, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.fetchedAt, c.ok
}

// Fresh returns the value only if it is younger than maxAge.
func (c *Cache[T]) Fresh(maxAge time.Duration) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok || c.now().Sub(c.fetchedAt) > maxAge {
		var zero T
		return zero, false
	}
	return c.value, true
}
