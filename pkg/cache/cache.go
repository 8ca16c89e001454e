package cache

import (
	"sync"
	"time"
)

// Store is the cache contract used by the services. Implementations must be
// safe for concurrent use.
type Store interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, bool)
	Delete(key string) error
}

// item represents a cached item with expiration
type item struct {
	value      []byte
	expiration int64
}

// expired checks if the cache item has expired
func (it item) expired() bool {
	if it.expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > it.expiration
}

// Memory is a thread-safe in-memory cache with expiration
type Memory struct {
	items           map[string]item
	mu              sync.RWMutex
	maxItems        int
	cleanupInterval time.Duration
}

// NewMemory creates a new in-memory cache. A cleanup goroutine purges
// expired entries at the given interval when it is > 0.
func NewMemory(maxItems int, cleanupInterval time.Duration) *Memory {
	cache := &Memory{
		items:           make(map[string]item),
		maxItems:        maxItems,
		cleanupInterval: cleanupInterval,
	}

	if cleanupInterval > 0 {
		go cache.startCleanupTimer()
	}

	return cache
}

// Set adds an item to the cache with the given expiration
func (c *Memory) Set(key string, value []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.maxItems > 0 && len(c.items) >= c.maxItems {
		c.evictOldest()
	}

	c.items[key] = item{
		value:      value,
		expiration: exp,
	}
	return nil
}

// Get retrieves an item from the cache
func (c *Memory) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || it.expired() {
		return nil, false
	}

	return it.value, true
}

// Delete removes an item from the cache
func (c *Memory) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Count returns the number of items in the cache (including expired items)
func (c *Memory) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// startCleanupTimer starts the cleanup ticker
func (c *Memory) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.deleteExpired()
	}
}

// deleteExpired deletes all expired items from the cache
func (c *Memory) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for k, v := range c.items {
		if v.expiration > 0 && now > v.expiration {
			delete(c.items, k)
		}
	}
}

// evictOldest finds and removes the entry closest to expiry.
// Caller must hold the lock.
func (c *Memory) evictOldest() {
	var oldestKey string
	var oldestTime int64

	firstRun := true
	for k, v := range c.items {
		if firstRun || v.expiration < oldestTime {
			oldestKey = k
			oldestTime = v.expiration
			firstRun = false
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
