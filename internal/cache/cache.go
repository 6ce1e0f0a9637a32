// Package cache provides the small in-process TTL cache shared by the
// upstream client and the geocoder.  Entries carry an absolute expiry; a
// read past expiry is a miss and the stale value is dropped lazily.
// Everything in here is cheap to recompute and bounded by the property
// table size, so a map and a mutex are all it takes.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	val interface{}
	exp time.Time
}

// TTL is a thread-safe key/value store with per-entry expiry.
type TTL struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time // swapped in tests
}

// New returns an empty cache.
func New() *TTL {
	return &TTL{entries: make(map[string]entry), now: time.Now}
}

// Get returns the cached value for key, or nil and false when the key is
// absent or expired.  Expired entries are removed on read.
func (c *TTL) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.exp) {
		delete(c.entries, key)
		return nil, false
	}
	return e.val, true
}

// Set stores val under key for the given ttl, replacing any prior entry.
func (c *TTL) Set(key string, val interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{val: val, exp: c.now().Add(ttl)}
}

// Len reports the number of entries, expired or not.
func (c *TTL) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
