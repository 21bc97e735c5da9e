package memory

import (
	"context"
	"sync"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// NewsCache is an in-memory implementation of domain.NewsCache.
type NewsCache struct {
	mu   sync.RWMutex
	data map[string]domain.NewsCacheEntry
}

// NewNewsCache creates an empty cache.
func NewNewsCache() *NewsCache {
	return &NewsCache{data: make(map[string]domain.NewsCacheEntry)}
}

func newsKey(symbol string, class domain.AssetClass) string {
	return symbol + "|" + string(class)
}

// Get returns the cached entry of any age, or domain.ErrNotFound.
func (c *NewsCache) Get(_ context.Context, symbol string, class domain.AssetClass) (domain.NewsCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.data[newsKey(symbol, class)]
	if !ok {
		return domain.NewsCacheEntry{}, domain.ErrNotFound
	}
	return entry, nil
}

// Set stores an entry, replacing any previous one for the key.
func (c *NewsCache) Set(_ context.Context, symbol string, class domain.AssetClass, entry domain.NewsCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[newsKey(symbol, class)] = entry
	return nil
}

// Compile-time interface check.
var _ domain.NewsCache = (*NewsCache)(nil)
