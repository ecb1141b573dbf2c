package cache

import (
	"container/list"
	"sync"
)

// FIFO is a bounded map that evicts in insertion order.
type FIFO[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = oldest insertion
	onEvict  func(K, V)
}

type fifoEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewFIFO creates a FIFO holding at most capacity entries.
// capacity <= 0 means unbounded. onEvict may be nil.
func NewFIFO[K comparable, V any](capacity int, onEvict func(K, V)) *FIFO[K, V] {
	return &FIFO[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
		onEvict:  onEvict,
	}
}

// Get returns the value for key. It does not change eviction order.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		return e.Value.(*fifoEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached.
func (c *FIFO[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Put inserts key. Re-inserting an existing key replaces the value in place
// and keeps its original insertion position. It returns the evicted key, if any.
func (c *FIFO[K, V]) Put(key K, value V) (evicted K, didEvict bool) {
	c.mu.Lock()

	if e, ok := c.items[key]; ok {
		e.Value.(*fifoEntry[K, V]).value = value
		c.mu.Unlock()
		return evicted, false
	}

	var victim *fifoEntry[K, V]
	if c.capacity > 0 && c.order.Len() >= c.capacity {
		front := c.order.Front()
		victim = front.Value.(*fifoEntry[K, V])
		c.order.Remove(front)
		delete(c.items, victim.key)
	}

	c.items[key] = c.order.PushBack(&fifoEntry[K, V]{key: key, value: value})
	c.mu.Unlock()

	if victim == nil {
		return evicted, false
	}
	if c.onEvict != nil {
		c.onEvict(victim.key, victim.value)
	}
	return victim.key, true
}

// Len returns the number of cached entries.
func (c *FIFO[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the cached keys, oldest insertion first.
func (c *FIFO[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*fifoEntry[K, V]).key)
	}
	return keys
}

// Capacity returns the configured bound (0 = unbounded).
func (c *FIFO[K, V]) Capacity() int {
	return c.capacity
}
