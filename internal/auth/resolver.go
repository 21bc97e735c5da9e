// Package auth resolves inbound credentials to subscription identities.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// Claims is the chartpulse access-token payload. Tokens minted before plan
// metadata was added carry only the email.
type Claims struct {
	jwt.RegisteredClaims
	Email          string `json:"email"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Plan           string `json:"plan,omitempty"`
}

// Config holds token verification parameters.
type Config struct {
	Secret        string
	Issuer        string
	Audience      string
	AllowLegacyID bool
	DemoToken     string
}

// Resolver maps an inbound HTTP request to a subscription. It only reads
// the subscription store; a failed or missing credential resolves to
// (nil, nil) so the edge can answer with one generic 401.
type Resolver struct {
	cfg    Config
	subs   domain.SubscriptionStore
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given subscription store.
func NewResolver(cfg Config, subs domain.SubscriptionStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg,
		subs:   subs,
		logger: logger.With(slog.String("component", "auth")),
	}
}

// Resolve inspects the request's credentials in order: bearer token, demo
// token, then the deprecated ?id= query parameter. It returns (nil, nil)
// when no usable credential is present; malformed or expired tokens are
// treated identically to no credential.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*domain.Subscription, error) {
	if token := bearerToken(req); token != "" {
		if sub := r.fromToken(ctx, token); sub != nil {
			return sub, nil
		}
		// Invalid signature, expired, or unknown email: fall through to
		// the remaining credential sources rather than hard-failing.
	}

	if r.cfg.DemoToken != "" && demoToken(req) == r.cfg.DemoToken {
		return demoSubscription(), nil
	}

	if r.cfg.AllowLegacyID {
		if id := req.URL.Query().Get("id"); id != "" {
			r.logger.WarnContext(ctx, "legacy id credential used",
				slog.String("subscription_id", id),
			)
			sub, err := r.subs.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return &sub, nil
		}
	}

	return nil, nil
}

// fromToken verifies the JWT and maps its claims to a subscription. It
// returns nil for any verification or lookup failure.
func (r *Resolver) fromToken(ctx context.Context, raw string) *domain.Subscription {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(r.cfg.Secret), nil
		},
	)
	if err != nil || !token.Valid {
		r.logger.DebugContext(ctx, "token rejected", slog.String("reason", errString(err)))
		return nil
	}
	if !claims.VerifyIssuer(r.cfg.Issuer, true) {
		r.logger.DebugContext(ctx, "token rejected", slog.String("reason", "issuer mismatch"))
		return nil
	}
	if !claims.VerifyAudience(r.cfg.Audience, true) {
		r.logger.DebugContext(ctx, "token rejected", slog.String("reason", "audience mismatch"))
		return nil
	}

	if claims.SubscriptionID != "" {
		// Prefer the store record when one exists: it is authoritative for
		// status and plan changes made after the token was minted.
		if sub, err := r.subs.GetByID(ctx, claims.SubscriptionID); err == nil {
			return &sub
		}
		if claims.Plan != "" {
			return &domain.Subscription{
				ID:     claims.SubscriptionID,
				Email:  claims.Email,
				Status: domain.SubscriptionActive,
				Plan:   domain.Plan(claims.Plan),
			}
		}
		return nil
	}

	// Pre-plan token: the email is the only handle we have.
	if claims.Email == "" {
		return nil
	}
	sub, err := r.subs.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil
	}
	return &sub
}

// demoSubscription is the fixed identity behind the shared demo token.
func demoSubscription() *domain.Subscription {
	return &domain.Subscription{
		ID:     "demo",
		Email:  "demo@chartpulse.io",
		Status: domain.SubscriptionActive,
		Plan:   domain.PlanFree,
	}
}

func bearerToken(req *http.Request) string {
	authz := req.Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func demoToken(req *http.Request) string {
	if v := req.Header.Get("X-Demo-Token"); v != "" {
		return v
	}
	return req.URL.Query().Get("demo_token")
}

func errString(err error) string {
	if err == nil {
		return "token invalid"
	}
	return err.Error()
}
