// Package refcache implements a keyed cache of reference-counted resources.
//
// Values are created on a miss, shared on a hit and destroyed when the last
// handle is freed. It exists for GPU objects (compiled shaders, linked
// programs) that need explicit destruction and must never be duplicated while
// a reference is live.
package refcache

import "sync"

// Cache maps the hash of creation parameters P to a shared value T.
// C is an opaque context passed through to the factory (a GPU context).
//
// Cache is safe for concurrent use. Creation happens under the cache lock,
// so two requests for the same key never create two values.
type Cache[T, P, C any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]

	hash    func(P) string
	create  func(C, P) (T, error)
	destroy func(T)
}

type entry[T any] struct {
	value T
	count int
}

// Handle is one holder's reference to a cached value.
type Handle[T, P, C any] struct {
	cache *Cache[T, P, C]
	key   string
	e     *entry[T]
	freed bool // guarded by cache.mu
}

// New creates a cache using hash to derive keys, create to build values on a
// miss and destroy to release a value once its count drops to zero.
func New[T, P, C any](hash func(P) string, create func(C, P) (T, error), destroy func(T)) *Cache[T, P, C] {
	return &Cache[T, P, C]{
		entries: make(map[string]*entry[T]),
		hash:    hash,
		create:  create,
		destroy: destroy,
	}
}

// Get returns a handle to the value for props, creating it if needed.
// A factory error is returned as is and nothing is cached.
func (c *Cache[T, P, C]) Get(ctx C, props P) (*Handle[T, P, C], error) {
	key := c.hash(props)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		v, err := c.create(ctx, props)
		if err != nil {
			return nil, err
		}
		e = &entry[T]{value: v}
		c.entries[key] = e
	}
	e.count++
	return &Handle[T, P, C]{cache: c, key: key, e: e}, nil
}

// Count returns the number of live entries.
func (c *Cache[T, P, C]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Dispose destroys every entry regardless of outstanding handles.
// Handles freed afterwards are no-ops.
func (c *Cache[T, P, C]) Dispose() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*entry[T])
	for _, e := range entries {
		e.count = 0
	}
	c.mu.Unlock()

	for _, e := range entries {
		c.destroy(e.value)
	}
}

// Value returns the shared value.
func (h *Handle[T, P, C]) Value() T { return h.e.value }

// Key returns the cache key the handle was obtained with.
func (h *Handle[T, P, C]) Key() string { return h.key }

// Free releases this handle. The value is destroyed when the last handle is
// freed. Freeing the same handle twice has no effect.
func (h *Handle[T, P, C]) Free() {
	c := h.cache
	c.mu.Lock()
	if h.freed {
		c.mu.Unlock()
		return
	}
	h.freed = true
	if cur, ok := c.entries[h.key]; !ok || cur != h.e {
		// disposed, the value is already gone
		c.mu.Unlock()
		return
	}
	h.e.count--
	last := h.e.count <= 0
	if last {
		delete(c.entries, h.key)
	}
	c.mu.Unlock()

	if last {
		c.destroy(h.e.value)
	}
}
