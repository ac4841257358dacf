package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryListingCache implements ListingCache with a local map.
// Suitable for single-instance deployments and tests.
type InMemoryListingCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewInMemoryListingCache creates an in-memory cache with the given TTL
func NewInMemoryListingCache(ttl time.Duration) *InMemoryListingCache {
	return &InMemoryListingCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached payload for key, or ErrCacheMiss
func (c *InMemoryListingCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.payload, nil
}

// Set stores the payload for key with the configured TTL
func (c *InMemoryListingCache) Set(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = inMemoryEntry{
		payload:   payload,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// InvalidateAll drops every cached entry
func (c *InMemoryListingCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]inMemoryEntry)
	return nil
}

// Len returns the number of cached entries (for testing/monitoring)
func (c *InMemoryListingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ ListingCache = (*InMemoryListingCache)(nil)
