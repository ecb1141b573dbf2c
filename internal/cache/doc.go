// Package cache provides the bounded in-process caches used by the engine.
//
// # FIFO
//
// FIFO is an insertion-ordered, entry-bounded map. Reads never reorder it:
// when a new key is inserted at capacity, the key inserted longest ago is
// evicted, no matter how often it was read. The geometry cache relies on this.
//
// # LRU
//
// LRU is a byte-bounded least-recently-used cache for raw resource bytes.
// It backs blobstore.CachingStore and can be tied to a resource.Controller
// so that several caches share one memory budget.
package cache
