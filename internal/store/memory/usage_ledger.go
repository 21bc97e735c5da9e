// Package memory provides in-memory store implementations used in demo mode
// and as test doubles.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// UsageLedger is an in-memory implementation of domain.UsageLedger. The
// mutex serializes read-modify-write per the ledger contract; a new UTC day
// starts a fresh counter lazily on first access.
type UsageLedger struct {
	mu   sync.Mutex
	data map[string]map[string]int // subscription id -> date -> count
	now  func() time.Time
}

// NewUsageLedger creates an empty ledger.
func NewUsageLedger() *UsageLedger {
	return &UsageLedger{
		data: make(map[string]map[string]int),
		now:  time.Now,
	}
}

// SetClock overrides the ledger's time source. Test hook.
func (l *UsageLedger) SetClock(now func() time.Time) { l.now = now }

// GetTodayCount returns the count consumed today, 0 if none.
func (l *UsageLedger) GetTodayCount(_ context.Context, subscriptionID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data[subscriptionID][domain.UsageDate(l.now())], nil
}

// Increment atomically bumps today's count and returns the new value.
func (l *UsageLedger) Increment(_ context.Context, subscriptionID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	days, ok := l.data[subscriptionID]
	if !ok {
		days = make(map[string]int)
		l.data[subscriptionID] = days
	}
	today := domain.UsageDate(l.now())
	days[today]++
	return days[today], nil
}

// Admit bumps today's count only when the result stays within limit. The
// mutex is held across the read and the write, so with one unit left only
// one of two concurrent callers is admitted.
func (l *UsageLedger) Admit(_ context.Context, subscriptionID string, limit int) (int, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	days, ok := l.data[subscriptionID]
	if !ok {
		days = make(map[string]int)
		l.data[subscriptionID] = days
	}
	today := domain.UsageDate(l.now())
	if limit >= 0 && days[today] >= limit {
		return days[today], false, nil
	}
	days[today]++
	return days[today], true, nil
}

// PurgeOlderThan drops day records outside the retention window.
func (l *UsageLedger) PurgeOlderThan(_ context.Context, retention time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := domain.UsageDate(l.now().Add(-retention))
	for id, days := range l.data {
		for date := range days {
			if date < cutoff {
				delete(days, date)
			}
		}
		if len(days) == 0 {
			delete(l.data, id)
		}
	}
	return nil
}

// Compile-time interface check.
var _ domain.UsageLedger = (*UsageLedger)(nil)
