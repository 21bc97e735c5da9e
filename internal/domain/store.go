package domain

import (
	"context"
	"time"
)

// UsageLedger tracks per-subscription daily request counts. Implementations
// must make Increment atomic per key: two concurrent requests for the same
// subscription must never both observe the same pre-increment count.
type UsageLedger interface {
	// GetTodayCount returns the count consumed today (UTC), 0 if none.
	GetTodayCount(ctx context.Context, subscriptionID string) (int, error)
	// Increment atomically bumps today's count and returns the new value.
	// A new UTC day starts a fresh counter lazily on first access.
	Increment(ctx context.Context, subscriptionID string) (int, error)
	// Admit increments today's count only when the result stays within
	// limit, as one atomic operation per key: two concurrent calls with one
	// unit of quota left must never both be admitted. A negative limit
	// admits unconditionally while still counting. Returns the count after
	// the call and whether the increment was applied.
	Admit(ctx context.Context, subscriptionID string, limit int) (count int, ok bool, err error)
	// PurgeOlderThan removes records older than the retention window.
	PurgeOlderThan(ctx context.Context, retention time.Duration) error
}

// SubscriptionStore reads subscription identities. The external webhook
// pipeline owns writes.
type SubscriptionStore interface {
	GetByID(ctx context.Context, id string) (Subscription, error)
	GetByEmail(ctx context.Context, email string) (Subscription, error)
}

// NewsCache stores fetched headlines keyed by symbol and asset class.
// Freshness policy lives with the caller; Get returns entries of any age
// together with ErrNotFound when the key has never been written.
type NewsCache interface {
	Get(ctx context.Context, symbol string, class AssetClass) (NewsCacheEntry, error)
	Set(ctx context.Context, symbol string, class AssetClass, entry NewsCacheEntry) error
}
