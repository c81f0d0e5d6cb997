package cache

import (
	"context"
	"sync"
	"time"
)

// sweepDivisor sets the sweep interval relative to the TTL.
const sweepDivisor = 4

// cacheEntry holds a cached value with its expiry instant.
type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// InMemoryCache is a thread-safe in-memory cache with TTL support.
// Expired entries are dropped lazily on read and reaped by a background
// sweep, so the cache cannot grow without bound and no value ever outlives
// its TTL.
type InMemoryCache struct {
	cache map[string]cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
// If ttlSeconds is 0 or negative, entries never expire and no sweep runs.
// Call Close when done to stop the sweep goroutine.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	c := &InMemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	if ttl > 0 {
		go c.sweep(ttl / sweepDivisor)
	}

	return c
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired, empty string and
// false otherwise.
func (c *InMemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.ttl > 0 && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(_ context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Len returns the number of entries currently held (expired entries that
// have not been swept yet are counted).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// Close stops the background sweep. Safe to call more than once.
func (c *InMemoryCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// sweep periodically removes expired entries.
func (c *InMemoryCache) sweep(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.reap()
		}
	}
}

func (c *InMemoryCache) reap() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.cache {
		if now.After(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
