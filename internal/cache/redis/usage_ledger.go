package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// UsageLedger implements domain.UsageLedger on Redis. Each subscription-day
// pair is a plain counter key; INCR gives the atomic read-modify-write the
// ledger contract requires, so concurrent requests for the same subscription
// serialize at the store.
type UsageLedger struct {
	rdb       *redis.Client
	retention time.Duration
	now       func() time.Time
}

// NewUsageLedger creates a UsageLedger backed by the given Client. Keys are
// given a TTL slightly past the retention window so stale counters age out
// even between purge sweeps.
func NewUsageLedger(c *Client, retention time.Duration) *UsageLedger {
	return &UsageLedger{
		rdb:       c.Underlying(),
		retention: retention,
		now:       time.Now,
	}
}

func usageKey(subscriptionID, date string) string {
	return "usage:" + subscriptionID + ":" + date
}

// GetTodayCount returns the count consumed today (UTC), 0 if none.
func (l *UsageLedger) GetTodayCount(ctx context.Context, subscriptionID string) (int, error) {
	key := usageKey(subscriptionID, domain.UsageDate(l.now()))
	n, err := l.rdb.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis: get usage %s: %w", subscriptionID, err)
	}
	return n, nil
}

// Increment atomically bumps today's counter and returns the new value.
func (l *UsageLedger) Increment(ctx context.Context, subscriptionID string) (int, error) {
	key := usageKey(subscriptionID, domain.UsageDate(l.now()))

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.retention+24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis: increment usage %s: %w", subscriptionID, err)
	}
	return int(incr.Val()), nil
}

// admitScript is a conditional INCR: the read, the limit comparison, and
// the increment run as one script, so concurrent admissions for the same
// key serialize inside Redis. A negative limit always increments.
var admitScript = redis.NewScript(`
local limit = tonumber(ARGV[1])
local count = tonumber(redis.call("GET", KEYS[1]) or "0")
if limit >= 0 and count >= limit then
  return {count, 0}
end
count = redis.call("INCR", KEYS[1])
redis.call("EXPIRE", KEYS[1], ARGV[2])
return {count, 1}
`)

// Admit bumps today's counter only when the result stays within limit.
func (l *UsageLedger) Admit(ctx context.Context, subscriptionID string, limit int) (int, bool, error) {
	key := usageKey(subscriptionID, domain.UsageDate(l.now()))
	ttl := int((l.retention + 24*time.Hour).Seconds())

	res, err := admitScript.Run(ctx, l.rdb, []string{key}, limit, ttl).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("redis: admit usage %s: %w", subscriptionID, err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("redis: admit usage %s: unexpected reply length %d", subscriptionID, len(res))
	}
	return int(res[0]), res[1] == 1, nil
}

// PurgeOlderThan removes counters for days before the retention cutoff. Key
// TTLs make this mostly a no-op; the sweep covers keys written under an
// older retention setting.
func (l *UsageLedger) PurgeOlderThan(ctx context.Context, retention time.Duration) error {
	cutoff := domain.UsageDate(l.now().Add(-retention))

	iter := l.rdb.Scan(ctx, 0, "usage:*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		// usage:{id}:{YYYY-MM-DD} — the date is the trailing 10 bytes.
		if len(key) < 10 {
			continue
		}
		if date := key[len(key)-10:]; date < cutoff {
			if err := l.rdb.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("redis: purge usage key %s: %w", key, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis: purge usage scan: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.UsageLedger = (*UsageLedger)(nil)
