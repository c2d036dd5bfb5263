package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds the in-process cache
const DefaultMemoryEntries = 128

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache implements the Cache interface in process, for deployments
// without Redis. Least recently used entries are evicted first.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryCache creates a cache holding at most size entries
func NewMemoryCache(size int) (*MemoryCache, error) {
	entries, err := lru.New[string, memoryEntry](size)

	if err != nil {
		return nil, fmt.Errorf("could not create memory cache: %w", err)
	}

	return &MemoryCache{entries: entries, now: time.Now}, nil
}

// Get retrieves a value that has not expired yet
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := c.entries.Get(key)

	if !ok {
		return nil, ErrCacheMiss
	}

	if !c.now().Before(entry.expires) {
		c.entries.Remove(key)
		return nil, ErrCacheMiss
	}

	return entry.value, nil
}

// Set stores a value until ttl elapses
// If ttl is 0, the value will not be cached
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		return nil
	}

	c.entries.Add(key, memoryEntry{value: value, expires: c.now().Add(ttl)})

	return nil
}

// Close drops every entry
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}
