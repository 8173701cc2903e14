package cache

import (
	"sync"
	"time"
)

// Entry is a single cached value together with its key and insertion time.
type Entry[K comparable, V any] struct {
	Key        K
	Value      V
	InsertedAt time.Time
}

// Cache is a bounded keyed store with optional TTL.
//
// When capacity is exceeded by a new key, the entry inserted earliest is
// evicted (original insertion order, not last access; re-setting a key does
// not move it). Re-setting an existing key refreshes its value and
// timestamp.
//
// Expiry is lazy: entries past their TTL are hidden by Get/Items/Len but may
// linger physically until overwritten or evicted.
type Cache[K comparable, V any] struct {
	mu       sync.RWMutex
	capacity int
	ttl      time.Duration
	entries  map[K]*Entry[K, V]
	order    []K

	now func() time.Time
}

// New returns a Cache holding at most capacity entries. A capacity <= 0 means
// unbounded. A ttl of 0 disables expiry.
func New[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[K]*Entry[K, V]),
		now:      time.Now,
	}
}

// Get returns the live value for key. Entries older than the TTL behave as
// absent even if not yet evicted.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.live(e) {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Set inserts or replaces the value for key and returns it. Inserting a new
// key at capacity evicts the earliest-inserted entry first. Re-setting an
// existing key never changes the entry count or its eviction position.
func (c *Cache[K, V]) Set(key K, value V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Value = value
		e.InsertedAt = c.now()
		return value
	}

	if c.capacity > 0 && len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &Entry[K, V]{Key: key, Value: value, InsertedAt: c.now()}
	c.order = append(c.order, key)
	return value
}

// Delete removes key if present.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Items returns a snapshot of all live entries in insertion order.
func (c *Cache[K, V]) Items() []Entry[K, V] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry[K, V], 0, len(c.order))
	for _, k := range c.order {
		if e, ok := c.entries[k]; ok && c.live(e) {
			out = append(out, *e)
		}
	}
	return out
}

// Len reports the number of live entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if c.live(e) {
			n++
		}
	}
	return n
}

func (c *Cache[K, V]) live(e *Entry[K, V]) bool {
	return c.ttl == 0 || c.now().Sub(e.InsertedAt) < c.ttl
}
