// Package cache provides a thread-safe, generic LRU cache.
//
// LRUCache combines a hash map with an intrusive doubly-linked list to give
// O(1) Get, Put, and Remove with least-recently-used eviction once capacity
// is reached. A capacity of zero or less disables eviction, which is rarely
// what production code wants since entries are then never reclaimed.
//
// # Usage
//
//	import "github.com/turnstilehq/turnstile/core/cache"
//
//	c := cache.NewLRUCache[string, *Bucket](10000)
//
//	c.Put("client:203.0.113.7", bucket)
//
//	if b, found := c.Get("client:203.0.113.7"); found {
//		// b is now the most recently used entry
//	}
//
//	if b, found := c.Remove("client:203.0.113.7"); found {
//		// entry deleted, b handed back to the caller
//	}
//
// # Eviction Callbacks
//
// A callback can be registered for entries dropped by capacity eviction or
// Clear, typically for resource cleanup or eviction metrics:
//
//	c.SetEvictCallback(func(key string, b *Bucket) {
//		evictions.Add(1)
//	})
//
// The callback runs with the cache lock held and must not call back into the
// cache. Remove does not trigger it; the removed value is returned instead.
//
// # Iteration
//
// Range visits entries in an unspecified order without touching recency,
// which suits periodic sweeps that decide expiry from the values themselves:
//
//	var stale []string
//	c.Range(func(key string, b *Bucket) bool {
//		if staleByNow(b) {
//			stale = append(stale, key)
//		}
//		return true
//	})
//	for _, key := range stale {
//		c.Remove(key)
//	}
//
// All operations are safe for concurrent use from multiple goroutines.
package cache
