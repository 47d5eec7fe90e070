// Package cache provides a generic, thread-safe LRU cache with optional
// time-to-live.
//
// The catalog service keeps recently viewed templates here so repeated
// detail page hits do not go to the database:
//
//	c := cache.NewLRUCache[string, catalog.Template](512, cache.WithTTL(5*time.Minute))
//	c.Put(id, tpl)
//	if tpl, ok := c.Get(id); ok {
//	    // served from memory
//	}
//
// Capacity overflow evicts the least recently used entry. Expired entries are
// removed lazily when they are read. Get, Put and Remove are O(1).
package cache
