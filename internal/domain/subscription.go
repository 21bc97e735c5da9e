package domain

import "time"

// SubscriptionStatus is the liveness state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// Plan is the subscription tier controlling the daily request quota.
type Plan string

const (
	PlanFree      Plan = "free"
	PlanMonthly   Plan = "monthly"
	PlanQuarterly Plan = "quarterly"
	PlanYearly    Plan = "yearly"
	PlanUnlimited Plan = "unlimited"
)

// UnlimitedQuota is the DailyLimit value for plans without a cap.
const UnlimitedQuota = -1

// DailyLimit returns the number of requests the plan allows per UTC day.
// Unknown plans are treated as free.
func (p Plan) DailyLimit() int {
	switch p {
	case PlanMonthly:
		return 50
	case PlanQuarterly:
		return 75
	case PlanYearly:
		return 100
	case PlanUnlimited:
		return UnlimitedQuota
	default:
		return 5
	}
}

// Subscription mirrors the external subscription store's record. The core
// only ever reads it; mutations happen on the webhook path outside this
// system.
type Subscription struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Status      SubscriptionStatus `json:"status"`
	Plan        Plan               `json:"plan"`
	RenewalDate time.Time          `json:"renewal_date"`
}

// Active reports whether the subscription may consume quota.
func (s Subscription) Active() bool {
	return s.Status == SubscriptionActive
}

// UsageRecord is one subscription's consumption for one UTC day.
//
// Invariant: exactly one record per subscription per calendar day; Count
// never decreases within a day.
type UsageRecord struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

// UsageDate formats t as the ledger's UTC day key.
func UsageDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
