package cache

import "sync"

// node is an entry in the intrusive doubly-linked list, ordered from most
// recently used (head) to least recently used (tail).
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// LRUCache is a thread-safe cache with least-recently-used eviction.
// A capacity of zero or less disables eviction entirely; entries then live
// until removed or cleared by the caller.
type LRUCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]
	onEvict  func(K, V)
}

// NewLRUCache creates an LRU cache holding up to capacity entries.
// Capacity zero or negative means unbounded.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*node[K, V]),
	}
}

// SetEvictCallback registers fn to be called for entries removed by capacity
// eviction or Clear. It is not called for Remove, which hands the value back
// to the caller instead. The callback runs while the cache lock is held, so
// it must not call back into the cache.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the value stored under key and marks it as most recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Peek returns the value stored under key without updating its recency.
func (c *LRUCache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Put stores value under key, replacing any previous value and marking the
// entry as most recently used. When the cache is over capacity afterwards,
// the least recently used entry is evicted.
func (c *LRUCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}

	n := &node[K, V]{key: key, value: value}
	c.items[key] = n
	c.pushFront(n)

	if c.capacity > 0 && len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Remove deletes the entry under key and returns its value.
// The eviction callback is not invoked.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.unlink(n)
	delete(c.items, key)
	return n.value, true
}

// Len returns the number of entries currently stored.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes all entries, invoking the eviction callback for each.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for key, n := range c.items {
			c.onEvict(key, n.value)
		}
	}
	c.items = make(map[K]*node[K, V])
	c.head = nil
	c.tail = nil
}

// Range calls fn for every entry in an unspecified order without updating
// recency, stopping early when fn returns false. The cache lock is held for
// the whole traversal; fn must not call back into the cache.
func (c *LRUCache[K, V]) Range(fn func(key K, value V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, n := range c.items {
		if !fn(key, n.value) {
			return
		}
	}
}

func (c *LRUCache[K, V]) evictOldest() {
	oldest := c.tail
	if oldest == nil {
		return
	}
	c.unlink(oldest)
	delete(c.items, oldest.key)
	if c.onEvict != nil {
		c.onEvict(oldest.key, oldest.value)
	}
}

func (c *LRUCache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRUCache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (c *LRUCache[K, V]) moveToFront(n *node[K, V]) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}
