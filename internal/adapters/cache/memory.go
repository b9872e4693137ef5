package cache

import (
	"context"
	"sync"
	"time"

	"slotpoll/internal/domain"
)

type memoryEntry struct {
	result    *domain.AggregationResult
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCache returns a process-local AggregationCache. Expired entries
// are dropped lazily on read. Intended for single-instance deployments and
// tests; use Redis when running more than one replica.
func NewMemoryCache() domain.AggregationCache {
	return &memoryCache{entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(ctx context.Context, eventID string) (*domain.AggregationResult, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[eventID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, eventID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.result, true, nil
}

func (c *memoryCache) Set(ctx context.Context, eventID string, result *domain.AggregationResult, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[eventID] = memoryEntry{result: result, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, eventID string) error {
	c.mu.Lock()
	delete(c.entries, eventID)
	c.mu.Unlock()
	return nil
}
