// Package cache provides the TTL-bounded in-memory cache backing the
// context manager.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an entry stays readable after insertion.
	DefaultTTL = 5 * time.Minute
	// DefaultMaxSize bounds the number of live entries.
	DefaultMaxSize = 1000
)

type entry struct {
	value     interface{}
	createdAt time.Time
	seq       uint64
}

// ContextCache is a TTL key/value cache bounded by entry count. Expiry is
// checked lazily on Get; when full, Set evicts the earliest-inserted entry
// (insertion order, not access order).
type ContextCache struct {
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
	seq     uint64
	mu      sync.RWMutex
}

// NewContextCache creates a cache with the given TTL and size bound.
// Non-positive values fall back to the defaults.
func NewContextCache(ttl time.Duration, maxSize int) *ContextCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &ContextCache{
		entries: make(map[string]*entry),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get returns the value for key, or (nil, false) when absent or expired.
// An expired entry is deleted as a side effect.
func (c *ContextCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set inserts or replaces the value for key. At capacity it evicts the
// single earliest-inserted surviving entry before inserting.
func (c *ContextCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.seq++
	c.entries[key] = &entry{
		value:     value,
		createdAt: time.Now(),
		seq:       c.seq,
	}
}

// Delete removes key if present.
func (c *ContextCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *ContextCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len reports the number of stored entries, expired or not.
func (c *ContextCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *ContextCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	valid := 0
	expired := 0
	for _, e := range c.entries {
		if time.Since(e.createdAt) <= c.ttl {
			valid++
		} else {
			expired++
		}
	}
	return map[string]interface{}{
		"total_entries":   len(c.entries),
		"valid_entries":   valid,
		"expired_entries": expired,
		"ttl_seconds":     c.ttl.Seconds(),
		"max_size":        c.maxSize,
	}
}

// evictOldest drops the entry with the lowest insertion sequence. Caller
// holds the write lock.
func (c *ContextCache) evictOldest() {
	var oldestKey string
	var oldestSeq uint64
	first := true
	for key, e := range c.entries {
		if first || e.seq < oldestSeq {
			oldestKey = key
			oldestSeq = e.seq
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
