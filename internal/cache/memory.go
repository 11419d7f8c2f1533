package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/dna-screening-server/internal/domain"
)

// MemoryCache is a bounded in-process LRU result cache.
type MemoryCache struct {
	entries *lru.Cache
}

// NewMemoryCache creates an LRU cache holding up to maxEntries
// results.
func NewMemoryCache(maxEntries int) (*MemoryCache, error) {
	entries, err := lru.New(maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &MemoryCache{entries: entries}, nil
}

// Get returns the cached breakdowns for key, if present.
func (c *MemoryCache) Get(_ context.Context, key string) ([]domain.ScoreBreakdown, bool, error) {
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	results, ok := v.([]domain.ScoreBreakdown)
	if !ok {
		return nil, false, nil
	}
	return results, true, nil
}

// Set stores breakdowns under key, evicting the least recently used
// entry when full.
func (c *MemoryCache) Set(_ context.Context, key string, results []domain.ScoreBreakdown) error {
	c.entries.Add(key, results)
	return nil
}

// Close releases the cache.
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}
