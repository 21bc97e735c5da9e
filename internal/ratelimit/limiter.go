// Package ratelimit gates requests against per-subscription daily quotas.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// Decision is the outcome of a quota check, shaped for the rate-limit
// response headers.
type Decision struct {
	Allowed bool
	Used    int
	Limit   int
	Plan    domain.Plan
	Reason  string // "inactive" or "quota" when denied
}

// Remaining returns the quota left, 0 when exhausted, -1 for unlimited.
func (d Decision) Remaining() int {
	if d.Limit == domain.UnlimitedQuota {
		return domain.UnlimitedQuota
	}
	if rem := d.Limit - d.Used; rem > 0 {
		return rem
	}
	return 0
}

// Limiter allows or denies requests based on subscription status and the
// usage ledger. Admission is one atomic ledger operation: the allow
// decision and the increment cannot be separated by a concurrent request,
// so with one unit of quota left only one caller gets it. A denial never
// increments.
type Limiter struct {
	ledger domain.UsageLedger
	logger *slog.Logger
}

// NewLimiter creates a Limiter over the given ledger.
func NewLimiter(ledger domain.UsageLedger, logger *slog.Logger) *Limiter {
	return &Limiter{
		ledger: ledger,
		logger: logger.With(slog.String("component", "ratelimit")),
	}
}

// Allow admits or denies one request for the subscription. An inactive
// subscription is denied without touching the ledger. On an allowed
// request Used carries the post-increment count; on a quota denial it is
// today's consumed count, unchanged.
func (l *Limiter) Allow(ctx context.Context, sub *domain.Subscription) (Decision, error) {
	limit := sub.Plan.DailyLimit()

	if !sub.Active() {
		return Decision{
			Allowed: false,
			Limit:   limit,
			Plan:    sub.Plan,
			Reason:  "inactive",
		}, nil
	}

	count, ok, err := l.ledger.Admit(ctx, sub.ID, limit)
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: admit %s: %w", sub.ID, err)
	}

	d := Decision{
		Allowed: ok,
		Used:    count,
		Limit:   limit,
		Plan:    sub.Plan,
	}
	if !ok {
		d.Reason = "quota"
	} else {
		l.logger.DebugContext(ctx, "usage consumed",
			slog.String("subscription_id", sub.ID),
			slog.Int("count", count),
		)
	}
	return d, nil
}
