package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chartpulse/chartpulse/internal/auth"
	"github.com/chartpulse/chartpulse/internal/cache/redis"
	"github.com/chartpulse/chartpulse/internal/config"
	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/marketdata"
	"github.com/chartpulse/chartpulse/internal/narrative"
	"github.com/chartpulse/chartpulse/internal/platform/dexscreener"
	"github.com/chartpulse/chartpulse/internal/platform/fmp"
	"github.com/chartpulse/chartpulse/internal/platform/llm"
	"github.com/chartpulse/chartpulse/internal/ratelimit"
	"github.com/chartpulse/chartpulse/internal/resolve"
	"github.com/chartpulse/chartpulse/internal/store/memory"
	"github.com/chartpulse/chartpulse/internal/store/postgres"
	"github.com/chartpulse/chartpulse/internal/symbols"
)

// Dependencies bundles every domain-level dependency the application needs.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Subscriptions domain.SubscriptionStore
	Ledger        domain.UsageLedger
	NewsCache     domain.NewsCache

	Resolver *resolve.Resolver
	Fetcher  *marketdata.Fetcher
	Analyzer *narrative.Analyzer

	Auth    *auth.Resolver
	Limiter *ratelimit.Limiter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
//
// Postgres and Redis are both optional: without Postgres the subscription
// store is an empty in-memory map (only the demo token works), and without
// Redis the usage ledger and news cache are process-local. Either fallback
// is logged loudly since it changes the durability story.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Subscription store ---
	if cfg.Postgres.DSN != "" || cfg.Postgres.Host != "" {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.MaxConns,
			MinConns: cfg.Postgres.MinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}

		deps.Subscriptions = postgres.NewSubscriptionStore(pgClient.Pool())
	} else {
		logger.Warn("postgres not configured, subscriptions limited to the demo token")
		deps.Subscriptions = memory.NewSubscriptionStore()
	}

	// --- Usage ledger and news cache ---
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Ledger = redis.NewUsageLedger(redisClient, cfg.RetentionWindow())
		deps.NewsCache = redis.NewNewsCache(redisClient)
	} else {
		logger.Warn("redis not configured, usage counts and news cache are process-local")
		deps.Ledger = memory.NewUsageLedger()
		deps.NewsCache = memory.NewNewsCache()
	}

	// --- Upstream clients ---
	fmpClient := fmp.NewClient(cfg.FMP.BaseURL, cfg.FMP.APIKey)
	dexClient := dexscreener.NewClient(cfg.Dex.BaseURL)

	var completer *llm.Client
	if cfg.LLM.APIKey != "" {
		completer = llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	} else {
		logger.Warn("llm api key not configured, narrative and llm resolution disabled")
	}

	// --- Resolution and market data ---
	// The resolver needs the fetcher for price enrichment and the fetcher
	// needs resolver-produced asset classes, so the enricher is installed
	// after both exist.
	resolver := resolve.NewResolver(symbols.NewCatalog(), dexClient, completerOrNil(completer), nil, logger)

	strategies := marketdata.NewStrategies(fmpClient, dexClient)
	fetcher := marketdata.NewFetcher(strategies, fmpClient, deps.NewsCache, logger)
	resolver.SetEnricher(marketdata.Enricher{Fetcher: fetcher})

	deps.Resolver = resolver
	deps.Fetcher = fetcher
	deps.Analyzer = narrative.NewAnalyzer(completerOrNil(completer), logger)

	// --- Edge ---
	deps.Auth = auth.NewResolver(auth.Config{
		Secret:        cfg.Auth.JWTSecret,
		Issuer:        cfg.Auth.Issuer,
		Audience:      cfg.Auth.Audience,
		AllowLegacyID: cfg.Auth.AllowLegacyID,
		DemoToken:     cfg.Auth.DemoToken,
	}, deps.Subscriptions, logger)
	deps.Limiter = ratelimit.NewLimiter(deps.Ledger, logger)

	return deps, cleanup, nil
}

// completerOrNil keeps a nil *llm.Client from becoming a non-nil interface.
func completerOrNil(c *llm.Client) resolve.Completer {
	if c == nil {
		return nil
	}
	return c
}
