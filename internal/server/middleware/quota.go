package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chartpulse/chartpulse/internal/auth"
	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/ratelimit"
)

type ctxKey int

const subscriptionKey ctxKey = iota

// SubscriptionFrom returns the subscription the quota middleware attached
// to the request context, nil when the route ran unauthenticated.
func SubscriptionFrom(ctx context.Context) *domain.Subscription {
	sub, _ := ctx.Value(subscriptionKey).(*domain.Subscription)
	return sub
}

// openPaths are routes reachable without a credential.
var openPaths = map[string]bool{
	"/api/health": true,
}

// Quota returns middleware that resolves the caller's subscription and
// enforces its daily request quota. Admission and consumption are a single
// atomic ledger operation, so concurrent requests for the same
// subscription cannot share the last unit of quota; the count reflects
// admitted requests even when a downstream stage later fails. Ledger
// failures fail open; blocking all traffic on a cache outage is worse
// than briefly over-serving.
func Quota(resolver *auth.Resolver, limiter *ratelimit.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			sub, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				logger.ErrorContext(r.Context(), "credential resolution failed",
					slog.String("error", err.Error()),
				)
				writeQuotaError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if sub == nil {
				writeQuotaError(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			decision, err := limiter.Allow(r.Context(), sub)
			if err != nil {
				logger.WarnContext(r.Context(), "quota admission failed, allowing request",
					slog.String("subscription_id", sub.ID),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r.WithContext(withSubscription(r.Context(), sub)))
				return
			}

			setQuotaHeaders(w, decision)

			if !decision.Allowed {
				switch decision.Reason {
				case "inactive":
					writeQuotaError(w, http.StatusForbidden, "subscription is not active")
				default:
					writeQuotaError(w, http.StatusTooManyRequests, "daily request limit reached")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(withSubscription(r.Context(), sub)))
		})
	}
}

func withSubscription(ctx context.Context, sub *domain.Subscription) context.Context {
	return context.WithValue(ctx, subscriptionKey, sub)
}

func setQuotaHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining()))
	w.Header().Set("X-RateLimit-Used", strconv.Itoa(d.Used))
	w.Header().Set("X-RateLimit-Plan", string(d.Plan))
	if !d.Allowed && d.Reason == "quota" {
		w.Header().Set("Retry-After", "86400")
	}
}

func writeQuotaError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
