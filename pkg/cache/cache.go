// Package cache provides a thread-safe LRU cache for compiled programs.
//
// The engine uses it when caching is enabled, so that running the same
// source text many times parses and compiles it only once.
//
// # Example
//
//	c := cache.New(1024)
//	expr, err := c.GetOrCompile(source, compile)
package cache

import (
	"container/list"
	"sync"

	"github.com/sandrolain/gochurch/pkg/types"
)

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key  string
	expr *types.Expression
}

// Stats reports cache activity since creation or the last Clear.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a thread-safe LRU (Least Recently Used) cache of compiled
// programs keyed by source text. Once the capacity is reached, the least
// recently used entry is evicted.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	stats    Stats
}

// New creates a new LRU cache with the given capacity.
// If capacity <= 0, a default of 256 is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a compiled program and marks it most recently used.
func (c *Cache) Get(key string) (*types.Expression, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).expr, true
}

// Set inserts or replaces a compiled program.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, expr *types.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).expr = expr
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	c.items[key] = c.ll.PushFront(&entry{key: key, expr: expr})
}

// GetOrCompile returns the cached program for key, or calls compile, caches
// its result and returns it. Errors are not cached.
func (c *Cache) GetOrCompile(key string, compile func() (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.Get(key); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(key, expr)
	return expr, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	c.stats = Stats{}
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
	c.stats.Evictions++
}
