package cache

import "sync"

// Kind identifies a cache namespace
type Kind string

const (
	KindProfile   Kind = "profile"
	KindRepos     Kind = "repos"
	KindLanguages Kind = "languages"
	KindEvents    Kind = "events"
)

// Cache is an in-memory memoization store scoped to the process lifetime.
// There is no eviction and no TTL: scope is a single interactive session.
// Entries are keyed by (kind, key) so the four resource namespaces never
// collide. Guarded by a mutex so it stays safe if fetch paths ever run in
// parallel.
type Cache struct {
	mu      sync.RWMutex
	entries map[Kind]map[string]interface{}
}

// New creates an empty cache
func New() *Cache {
	return &Cache{
		entries: make(map[Kind]map[string]interface{}),
	}
}

// Get returns the cached value for (kind, key), if present
func (c *Cache) Get(kind Kind, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ns, ok := c.entries[kind]
	if !ok {
		return nil, false
	}
	value, ok := ns[key]
	return value, ok
}

// Put stores a value under (kind, key), overwriting any previous entry
func (c *Cache) Put(kind Kind, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns, ok := c.entries[kind]
	if !ok {
		ns = make(map[string]interface{})
		c.entries[kind] = ns
	}
	ns[key] = value
}

// Len returns the number of entries in a namespace
func (c *Cache) Len(kind Kind) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[kind])
}
