// Package cache provides the shared bounded cache used across the engine:
// LRU eviction at capacity with a per-entry TTL on top. One instance is
// constructed by the engine and passed into every component that needs it.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	// DefaultCapacity bounds the number of live entries.
	DefaultCapacity = 100
	// DefaultTTL applies when the caller does not override it per entry.
	DefaultTTL = 30 * time.Minute
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

type entry[V any] struct {
	value V
	expAt time.Time
}

// Cache is a concurrency-safe key/value store with LRU eviction and
// per-entry expiry. Both Get and Set promote the key to most recently
// used. Callers must not mix value types under one key.
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	lru        *simplelru.LRU[K, entry[V]]
	defaultTTL time.Duration
	now        Clock
}

// New creates a cache with the given capacity and default TTL. Zero or
// negative values use the package defaults.
func New[K comparable, V any](capacity int, defaultTTL time.Duration) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	lru, _ := simplelru.NewLRU[K, entry[V]](capacity, nil)
	return &Cache[K, V]{
		lru:        lru,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source. For tests.
func (c *Cache[K, V]) WithClock(now Clock) *Cache[K, V] {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// Get returns the value for key and promotes it. An expired entry is
// removed and reported as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL. The least recently
// used entry is evicted when the capacity bound is exceeded.
func (c *Cache[K, V]) SetTTL(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.lru.Add(key, entry[V]{value: value, expAt: c.now().Add(ttl)})
	c.mu.Unlock()
}

// Remove drops key from the cache.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	c.lru.Remove(key)
	c.mu.Unlock()
}

// RemoveWhere drops every key matching the predicate.
func (c *Cache[K, V]) RemoveWhere(pred func(K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.lru.Keys() {
		if pred(key) {
			c.lru.Remove(key)
		}
	}
}

// Clear drops all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.lru.Purge()
	c.mu.Unlock()
}

// Len returns the number of stored entries, including not-yet-collected
// expired ones.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
