package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// newsRetention bounds how long a stale entry stays available as a fallback.
// Freshness within that window is the fetcher's call, not the cache's.
const newsRetention = 24 * time.Hour

// NewsCache implements domain.NewsCache using JSON values keyed by
// symbol and asset class.
type NewsCache struct {
	rdb *redis.Client
}

// NewNewsCache creates a NewsCache backed by the given Client.
func NewNewsCache(c *Client) *NewsCache {
	return &NewsCache{rdb: c.Underlying()}
}

func newsCacheKey(symbol string, class domain.AssetClass) string {
	return "news:" + string(class) + ":" + symbol
}

// Get returns the cached entry of any age. It returns domain.ErrNotFound
// when the key has never been written or has aged out entirely.
func (nc *NewsCache) Get(ctx context.Context, symbol string, class domain.AssetClass) (domain.NewsCacheEntry, error) {
	raw, err := nc.rdb.Get(ctx, newsCacheKey(symbol, class)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewsCacheEntry{}, domain.ErrNotFound
		}
		return domain.NewsCacheEntry{}, fmt.Errorf("redis: get news %s/%s: %w", class, symbol, err)
	}

	var entry domain.NewsCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.NewsCacheEntry{}, fmt.Errorf("redis: decode news %s/%s: %w", class, symbol, err)
	}
	return entry, nil
}

// Set stores an entry, replacing any previous one for the key.
func (nc *NewsCache) Set(ctx context.Context, symbol string, class domain.AssetClass, entry domain.NewsCacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("redis: encode news %s/%s: %w", class, symbol, err)
	}
	if err := nc.rdb.Set(ctx, newsCacheKey(symbol, class), raw, newsRetention).Err(); err != nil {
		return fmt.Errorf("redis: set news %s/%s: %w", class, symbol, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.NewsCache = (*NewsCache)(nil)
