package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func activeSub(plan domain.Plan) *domain.Subscription {
	return &domain.Subscription{
		ID:     "sub-1",
		Email:  "user@example.com",
		Status: domain.SubscriptionActive,
		Plan:   plan,
	}
}

func TestAllowUnderQuota(t *testing.T) {
	ctx := context.Background()
	limiter := NewLimiter(memory.NewUsageLedger(), testLogger())
	sub := activeSub(domain.PlanFree)

	d, err := limiter.Allow(ctx, sub)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Used)
	assert.Equal(t, 5, d.Limit)
	assert.Equal(t, 4, d.Remaining())
}

func TestAllowDeniesAtQuota(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewUsageLedger()
	limiter := NewLimiter(ledger, testLogger())
	sub := activeSub(domain.PlanFree)

	for i := 1; i <= 5; i++ {
		d, err := limiter.Allow(ctx, sub)
		require.NoError(t, err)
		require.True(t, d.Allowed, "request %d should be allowed", i)
		assert.Equal(t, i, d.Used)
	}

	d, err := limiter.Allow(ctx, sub)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "quota", d.Reason)
	assert.Equal(t, 5, d.Used)
	assert.Equal(t, 0, d.Remaining())

	// The denial did not consume.
	count, err := ledger.GetTodayCount(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestAllowConcurrentLastUnit(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewUsageLedger()
	limiter := NewLimiter(ledger, testLogger())
	sub := activeSub(domain.PlanFree)

	for i := 0; i < 4; i++ {
		d, err := limiter.Allow(ctx, sub)
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}

	// One unit left: a concurrent burst must not share it.
	const workers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := limiter.Allow(ctx, sub)
			assert.NoError(t, err)
			if d.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
	count, err := ledger.GetTodayCount(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count, "denied requests must not count")
}

func TestAllowUnlimitedPlan(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewUsageLedger()
	limiter := NewLimiter(ledger, testLogger())
	sub := activeSub(domain.PlanUnlimited)

	for i := 1; i <= 500; i++ {
		d, err := limiter.Allow(ctx, sub)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		assert.Equal(t, i, d.Used)
	}

	d, err := limiter.Allow(ctx, sub)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, domain.UnlimitedQuota, d.Limit)
	assert.Equal(t, domain.UnlimitedQuota, d.Remaining())
}

func TestAllowDeniesInactive(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewUsageLedger()
	limiter := NewLimiter(ledger, testLogger())
	sub := activeSub(domain.PlanYearly)
	sub.Status = domain.SubscriptionInactive

	d, err := limiter.Allow(ctx, sub)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "inactive", d.Reason)

	// Inactive denials never touch the ledger.
	count, err := ledger.GetTodayCount(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPlanLimits(t *testing.T) {
	cases := []struct {
		plan  domain.Plan
		limit int
	}{
		{domain.PlanFree, 5},
		{domain.PlanMonthly, 50},
		{domain.PlanQuarterly, 75},
		{domain.PlanYearly, 100},
		{domain.PlanUnlimited, domain.UnlimitedQuota},
		{domain.Plan("garbage"), 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.limit, tc.plan.DailyLimit(), "plan %s", tc.plan)
	}
}
