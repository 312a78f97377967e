// Package lru provides a fixed-capacity least-recently-used cache.
package lru

import (
	"fmt"
	"sync"
)

// entry is an intrusive list element. The list is circular around a
// sentinel root: root.next is the most recently used entry, root.prev the
// least recently used.
type entry[K comparable, V any] struct {
	key K
	val V

	prev *entry[K, V]
	next *entry[K, V]
}

// EvictFunc is called with the key and value of every evicted entry,
// while the cache lock is held. It must not call back into the cache.
type EvictFunc[K comparable, V any] func(key K, val V)

// Cache is a thread-safe LRU cache holding at most Cap entries.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	items   map[K]*entry[K, V]
	root    entry[K, V]
	onEvict EvictFunc[K, V]
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithEvictFunc registers a callback for capacity evictions.
func WithEvictFunc[K comparable, V any](fn EvictFunc[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) { c.onEvict = fn }
}

// New creates a cache with the given capacity.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("lru: capacity must be positive, got %d", capacity)
	}
	c := &Cache[K, V]{
		cap:   capacity,
		items: make(map[K]*entry[K, V], capacity),
	}
	c.root.next = &c.root
	c.root.prev = &c.root
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.val, true
}

// Peek returns the value for key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.val, true
}

// Add inserts or updates key as the most recently used entry. When a new
// key arrives at capacity, the least recently used entry is evicted first.
// Reports whether an eviction happened.
func (c *Cache[K, V]) Add(key K, val V) (evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.val = val
		c.moveToFront(e)
		return false
	}

	if len(c.items) >= c.cap {
		c.evictOldest()
		evicted = true
	}

	e := &entry[K, V]{key: key, val: val}
	c.insertFront(e)
	c.items[key] = e
	return evicted
}

// Remove deletes key. Reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(e)
	delete(c.items, key)
	return true
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Cap returns the capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Keys returns the keys ordered from least to most recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for e := c.root.prev; e != &c.root; e = e.prev {
		keys = append(keys, e.key)
	}
	return keys
}

// Purge removes all entries without calling the evict callback.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.items)
	c.root.next = &c.root
	c.root.prev = &c.root
}

func (c *Cache[K, V]) evictOldest() {
	e := c.root.prev
	if e == &c.root {
		return
	}
	c.unlink(e)
	delete(c.items, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.val)
	}
}

func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if c.root.next == e {
		return
	}
	c.unlink(e)
	c.insertFront(e)
}

func (c *Cache[K, V]) insertFront(e *entry[K, V]) {
	e.prev = &c.root
	e.next = c.root.next
	c.root.next.prev = e
	c.root.next = e
}

func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
}
