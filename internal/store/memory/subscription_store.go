package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// SubscriptionStore is an in-memory implementation of
// domain.SubscriptionStore.
type SubscriptionStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.Subscription
	byEmail map[string]domain.Subscription
}

// NewSubscriptionStore creates an empty store, optionally seeded.
func NewSubscriptionStore(seed ...domain.Subscription) *SubscriptionStore {
	s := &SubscriptionStore{
		byID:    make(map[string]domain.Subscription),
		byEmail: make(map[string]domain.Subscription),
	}
	for _, sub := range seed {
		s.Put(sub)
	}
	return s
}

// Put inserts or replaces a subscription.
func (s *SubscriptionStore) Put(sub domain.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sub.ID] = sub
	if sub.Email != "" {
		s.byEmail[strings.ToLower(sub.Email)] = sub
	}
}

// GetByID looks up a subscription by its id.
func (s *SubscriptionStore) GetByID(_ context.Context, id string) (domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.byID[id]
	if !ok {
		return domain.Subscription{}, domain.ErrNotFound
	}
	return sub, nil
}

// GetByEmail looks up a subscription by email, case-insensitive.
func (s *SubscriptionStore) GetByEmail(_ context.Context, email string) (domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.Subscription{}, domain.ErrNotFound
	}
	return sub, nil
}

// Compile-time interface check.
var _ domain.SubscriptionStore = (*SubscriptionStore)(nil)
