package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// SubscriptionStore implements domain.SubscriptionStore using PostgreSQL.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewSubscriptionStore creates a store backed by the given connection pool.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{pool: pool}
}

const subscriptionColumns = `id, email, status, plan, renewal_date`

// GetByID looks up a subscription by its id.
func (s *SubscriptionStore) GetByID(ctx context.Context, id string) (domain.Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, domain.ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("postgres: get subscription %s: %w", id, err)
	}
	return sub, nil
}

// GetByEmail looks up a subscription by email, case-insensitive. When an
// email has several records, the most recently renewed one wins.
func (s *SubscriptionStore) GetByEmail(ctx context.Context, email string) (domain.Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+`
		 FROM subscriptions
		 WHERE LOWER(email) = LOWER($1)
		 ORDER BY renewal_date DESC NULLS LAST
		 LIMIT 1`, email)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, domain.ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("postgres: get subscription by email: %w", err)
	}
	return sub, nil
}

func scanSubscription(row pgx.Row) (domain.Subscription, error) {
	var (
		sub     domain.Subscription
		status  string
		plan    string
		renewal *time.Time
	)
	if err := row.Scan(&sub.ID, &sub.Email, &status, &plan, &renewal); err != nil {
		return domain.Subscription{}, err
	}
	sub.Status = domain.SubscriptionStatus(status)
	sub.Plan = domain.Plan(plan)
	if renewal != nil {
		sub.RenewalDate = *renewal
	}
	return sub, nil
}

// Compile-time interface check.
var _ domain.SubscriptionStore = (*SubscriptionStore)(nil)
