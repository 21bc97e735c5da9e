// Package app provides the top-level application lifecycle for the
// chartpulse server. It wires together all dependencies (stores, caches,
// upstream clients, services) and runs the HTTP server plus the ledger
// purge schedule until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/chartpulse/chartpulse/internal/config"
	"github.com/chartpulse/chartpulse/internal/server"
	"github.com/chartpulse/chartpulse/internal/server/handler"
	"github.com/chartpulse/chartpulse/internal/server/middleware"
	"github.com/chartpulse/chartpulse/internal/service"
)

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 15 * time.Second

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions that are called in reverse order on
// shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the HTTP
// server and the usage-purge schedule, and blocks until the context is
// cancelled. On return it runs all registered cleanup functions.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
		slog.Int("port", a.cfg.Server.Port),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	analysisSvc := service.NewAnalysisService(deps.Resolver, deps.Fetcher, deps.Analyzer, a.logger)
	chartSvc := service.NewChartService(deps.Resolver, deps.Fetcher, a.logger)

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health:    handler.NewHealthHandler(a.logger),
			Sentiment: handler.NewSentimentHandler(analysisSvc, a.logger),
			Chart:     handler.NewChartHandler(chartSvc, a.logger),
		},
		middleware.Quota(deps.Auth, deps.Limiter, a.logger),
		a.logger,
	)

	if err := a.startPurgeSchedule(ctx, deps); err != nil {
		return fmt.Errorf("app: purge schedule: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("app: %w", err)
	}
	return ctx.Err()
}

// startPurgeSchedule runs the usage-ledger retention sweep on the
// configured cron expression. Redis entries also expire by TTL; the sweep
// is what keeps the in-memory fallback bounded.
func (a *App) startPurgeSchedule(ctx context.Context, deps *Dependencies) error {
	c := cron.New()
	_, err := c.AddFunc(a.cfg.Usage.PurgeCron, func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := deps.Ledger.PurgeOlderThan(purgeCtx, a.cfg.RetentionWindow()); err != nil {
			a.logger.Warn("usage purge failed", slog.String("error", err.Error()))
			return
		}
		a.logger.Debug("usage purge completed")
	})
	if err != nil {
		return err
	}

	c.Start()
	a.closers = append(a.closers, func() { <-c.Stop().Done() })

	a.logger.InfoContext(ctx, "usage purge scheduled",
		slog.String("cron", a.cfg.Usage.PurgeCron),
		slog.Duration("retention", a.cfg.RetentionWindow()),
	)
	return nil
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
