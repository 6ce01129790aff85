package filter

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the number of compiled expressions kept by NewCache
const DefaultCacheSize = 64

// Cache keeps recently used compiled filters so presets and repeated
// expressions are compiled once. The least recently used filter is evicted
// when the cache is full.
type Cache struct {
	mu    sync.Mutex
	size  int
	order *list.List // of *Filter, most recent first
	byExp map[string]*list.Element
}

// NewCache creates a cache holding up to size filters
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		size:  size,
		order: list.New(),
		byExp: make(map[string]*list.Element, size),
	}
}

// Get returns the compiled filter for expression, compiling it on a miss.
// Failed compilations are not cached.
func (c *Cache) Get(expression string) (*Filter, error) {
	c.mu.Lock()
	if el, ok := c.byExp[expression]; ok {
		c.order.MoveToFront(el)
		c.mu.Unlock()
		return el.Value.(*Filter), nil
	}
	c.mu.Unlock()

	// compile outside the lock; a concurrent miss on the same expression
	// compiles twice and keeps the first result
	f, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byExp[expression]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*Filter), nil
	}
	c.byExp[expression] = c.order.PushFront(f)
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byExp, oldest.Value.(*Filter).expr)
	}
	return f, nil
}

// Len returns the number of cached filters
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops all cached filters
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.byExp = make(map[string]*list.Element, c.size)
}
