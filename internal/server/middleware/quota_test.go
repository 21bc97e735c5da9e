package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/auth"
	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/ratelimit"
	"github.com/chartpulse/chartpulse/internal/store/memory"
)

func quotaHandler(subs ...domain.Subscription) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := auth.NewResolver(auth.Config{
		Secret:        "secret",
		Issuer:        "chartpulse",
		Audience:      "chartpulse-api",
		AllowLegacyID: true,
		DemoToken:     "demo-token",
	}, memory.NewSubscriptionStore(subs...), logger)
	limiter := ratelimit.NewLimiter(memory.NewUsageLedger(), logger)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := SubscriptionFrom(r.Context())
		if sub == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return Quota(resolver, limiter, logger)(inner)
}

func TestQuotaRejectsAnonymous(t *testing.T) {
	h := quotaHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/sentiment", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "credentials")
}

func TestQuotaHealthIsOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := auth.NewResolver(auth.Config{Secret: "s"}, memory.NewSubscriptionStore(), logger)
	limiter := ratelimit.NewLimiter(memory.NewUsageLedger(), logger)

	var reached bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	h := Quota(resolver, limiter, logger)(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestQuotaEnforcesDailyLimit(t *testing.T) {
	h := quotaHandler()

	// The demo identity rides the free plan: 5 per day.
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/sentiment", nil)
		req.Header.Set("X-Demo-Token", "demo-token")
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sentiment", nil)
	req.Header.Set("X-Demo-Token", "demo-token")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Used"))
	assert.Equal(t, "free", rec.Header().Get("X-RateLimit-Plan"))
	assert.Equal(t, "86400", rec.Header().Get("Retry-After"))
}

func TestQuotaConcurrentBurstAtLimit(t *testing.T) {
	h := quotaHandler()

	// Use all but the last unit of the free plan's 5.
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/sentiment", nil)
		req.Header.Set("X-Demo-Token", "demo-token")
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// A 20-way burst races for the last unit; exactly one may win even
	// though each request makes its own admission call.
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
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/sentiment", nil)
			req.Header.Set("X-Demo-Token", "demo-token")
			h.ServeHTTP(rec, req)
			if rec.Code == http.StatusOK {
				mu.Lock()
				admitted++
				mu.Unlock()
			} else {
				assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
}

func TestQuotaRejectsInactiveSubscription(t *testing.T) {
	h := quotaHandler(domain.Subscription{
		ID:     "sub-1",
		Status: domain.SubscriptionInactive,
		Plan:   domain.PlanYearly,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/sentiment?id=sub-1", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not active")
}

func TestQuotaAttachesSubscription(t *testing.T) {
	h := quotaHandler(domain.Subscription{
		ID:     "sub-2",
		Status: domain.SubscriptionActive,
		Plan:   domain.PlanMonthly,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/sentiment?id=sub-2", nil))

	// The inner handler 500s when SubscriptionFrom returns nil.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "50", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "49", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Used"))
	assert.Equal(t, "monthly", rec.Header().Get("X-RateLimit-Plan"))
}
