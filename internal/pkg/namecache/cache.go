package namecache

import "sync"

// Cache is an explicit display-name cache keyed by user id. Entries have no
// TTL: staleness is corrected only by Invalidate calls from the profile
// mutation paths. The lifetime is whatever its owner injects - application
// scoped in the server, per-test in tests.
type Cache struct {
	mu    sync.RWMutex
	names map[uint]string
}

// New creates an empty name cache.
func New() *Cache {
	return &Cache{names: make(map[uint]string)}
}

// Get returns the cached name for a user id, if any.
func (c *Cache) Get(userID uint) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[userID]
	return name, ok
}

// Set stores a resolved name.
func (c *Cache) Set(userID uint, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[userID] = name
}

// Invalidate drops the entry for one user id.
func (c *Cache) Invalidate(userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.names, userID)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = make(map[uint]string)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}
