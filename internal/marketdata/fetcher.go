// Package marketdata fetches quotes, price series, and news through
// per-asset-class strategies with tiered fallback. Every public method
// degrades instead of failing: when all live tiers are down the caller gets
// synthetic data tagged as such, never an error page.
package marketdata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// newsLimit is how many headlines one fetch requests upstream.
const newsLimit = 10

// newsRetries is how many extra attempts a failed news fetch gets before
// the cache and generic fallbacks take over.
const newsRetries = 2

// newsRetryBase is the first retry's backoff; it doubles per attempt.
const newsRetryBase = 500 * time.Millisecond

// Fetcher is the market data facade. Strategy selection happens once per
// call from the asset's class; unknown classes fall back to the stock
// strategy.
type Fetcher struct {
	strategies map[domain.AssetClass]ClassStrategy
	api        MarketAPI
	cache      domain.NewsCache
	logger     *slog.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewFetcher creates a Fetcher. api backs the generic news fallback shared
// by every class.
func NewFetcher(strategies map[domain.AssetClass]ClassStrategy, api MarketAPI, cache domain.NewsCache, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		strategies: strategies,
		api:        api,
		cache:      cache,
		logger:     logger.With(slog.String("component", "marketdata")),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

func (f *Fetcher) strategyFor(asset *domain.Asset) ClassStrategy {
	if s, ok := f.strategies[asset.Class]; ok {
		return s
	}
	return f.strategies[domain.ClassStock]
}

// GetQuote returns a spot price for the asset. It cannot fail: when every
// live tier is down a synthetic quote anchored on the asset's known or
// default price comes back, tagged SourceSynthetic.
func (f *Fetcher) GetQuote(ctx context.Context, asset *domain.Asset) domain.PriceQuote {
	quote, err := f.GetLiveQuote(ctx, asset)
	if err != nil {
		f.logger.WarnContext(ctx, "all quote tiers failed, serving synthetic",
			slog.String("symbol", asset.DisplaySymbol),
			slog.String("class", string(asset.Class)),
			slog.String("error", err.Error()),
		)
		return syntheticQuote(asset, f.now())
	}
	return quote
}

// GetLiveQuote runs only the live tiers and fails when all of them do.
// Resolution uses this path for price enrichment, where a miss should
// degrade the asset rather than fabricate a price.
func (f *Fetcher) GetLiveQuote(ctx context.Context, asset *domain.Asset) (domain.PriceQuote, error) {
	strategy := f.strategyFor(asset)

	res, err := RunTiers(ctx, f.logger, strategy.QuoteTiers(asset))
	if err != nil {
		return domain.PriceQuote{}, err
	}
	quote := res.Value
	quote.Source = res.Source
	return quote, nil
}

// SeriesOptions selects the series shape.
type SeriesOptions struct {
	// EOD restricts the chain to daily end-of-day bars.
	EOD bool
}

// GetSeries returns a price history for the asset, at least two points
// long. endPrice anchors the synthetic fallback so a fabricated series
// lands exactly on the quote the caller is charting; pass 0 to use the
// asset's default anchor.
func (f *Fetcher) GetSeries(ctx context.Context, asset *domain.Asset, endPrice float64, opts SeriesOptions) domain.PriceSeries {
	strategy := f.strategyFor(asset)

	res, err := RunTiers(ctx, f.logger, strategy.SeriesTiers(asset, opts.EOD))
	if err != nil {
		f.logger.WarnContext(ctx, "all series tiers failed, serving synthetic",
			slog.String("symbol", asset.DisplaySymbol),
			slog.String("class", string(asset.Class)),
			slog.Bool("eod", opts.EOD),
			slog.String("error", err.Error()),
		)
		return syntheticSeries(asset, endPrice, f.now())
	}
	series := res.Value
	series.Source = res.Source
	return series
}

// GetNews returns headlines for the asset. A fresh cache entry is served
// directly; otherwise the class feed is fetched with retries, and on total
// failure a stale cache entry of any age, then the general feed, then an
// empty fallback result keep the response well-formed.
func (f *Fetcher) GetNews(ctx context.Context, asset *domain.Asset) domain.NewsResult {
	strategy := f.strategyFor(asset)
	now := f.now()

	cached, cacheErr := f.cache.Get(ctx, asset.DisplaySymbol, asset.Class)
	if cacheErr == nil && cached.Age(now) <= strategy.NewsTTL() {
		return domain.NewsResult{
			Items:    cached.Items,
			Cached:   true,
			CacheAge: cached.Age(now),
		}
	}

	items, err := f.fetchNewsWithRetry(ctx, strategy, asset)
	if err == nil {
		entry := domain.NewsCacheEntry{Items: items, FetchedAt: now}
		if err := f.cache.Set(ctx, asset.DisplaySymbol, asset.Class, entry); err != nil {
			f.logger.WarnContext(ctx, "news cache write failed",
				slog.String("symbol", asset.DisplaySymbol),
				slog.String("error", err.Error()),
			)
		}
		return domain.NewsResult{Items: items}
	}

	f.logger.WarnContext(ctx, "news fetch failed",
		slog.String("symbol", asset.DisplaySymbol),
		slog.String("class", string(asset.Class)),
		slog.String("error", err.Error()),
	)

	// Stale beats empty: any cached entry is better than no headlines.
	if cacheErr == nil && len(cached.Items) > 0 {
		return domain.NewsResult{
			Items:    cached.Items,
			Cached:   true,
			CacheAge: cached.Age(now),
		}
	}

	// Last resort: the general feed, so sentiment still has something to
	// read even when the class feed is down.
	if general, gerr := f.generalNews(ctx); gerr == nil && len(general) > 0 {
		return domain.NewsResult{Items: general, Fallback: true}
	}

	return domain.NewsResult{Items: []domain.NewsItem{}, Fallback: true}
}

// GetMetrics returns valuation ratios for equity assets, nil for every
// other class. A failed or empty fetch degrades to nil; the narrative
// simply goes without the enrichment block.
func (f *Fetcher) GetMetrics(ctx context.Context, asset *domain.Asset) *domain.FinancialRatios {
	if asset.Class != domain.ClassStock {
		return nil
	}

	rows, err := f.api.GetRatios(ctx, asset.QuerySymbol)
	if err != nil {
		f.logger.WarnContext(ctx, "ratios fetch failed",
			slog.String("symbol", asset.DisplaySymbol),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	r := rows[0]
	return &domain.FinancialRatios{
		PERatio:       r.PERatio,
		PriceToSales:  r.PriceToSales,
		DebtToEquity:  r.DebtToEquity,
		DividendYield: r.DividendYield,
	}
}

func (f *Fetcher) fetchNewsWithRetry(ctx context.Context, strategy ClassStrategy, asset *domain.Asset) ([]domain.NewsItem, error) {
	var errs []error
	backoff := newsRetryBase
	for attempt := 0; attempt <= newsRetries; attempt++ {
		if attempt > 0 {
			if err := f.sleep(ctx, backoff); err != nil {
				errs = append(errs, err)
				break
			}
			backoff *= 2
		}
		items, err := strategy.FetchNews(ctx, asset, newsLimit)
		if err == nil {
			return items, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// generalNews fetches the cross-asset feed, the last news tier shared by
// every class.
func (f *Fetcher) generalNews(ctx context.Context) ([]domain.NewsItem, error) {
	articles, err := f.api.GetGeneralNews(ctx, newsLimit)
	if err != nil {
		return nil, err
	}
	return newsFromArticles(articles), nil
}

// Enricher adapts the live-only quote path to the resolver's enrichment
// hook, keeping synthetic prices out of resolution.
type Enricher struct {
	Fetcher *Fetcher
}

func (e Enricher) GetQuote(ctx context.Context, asset *domain.Asset) (domain.PriceQuote, error) {
	return e.Fetcher.GetLiveQuote(ctx, asset)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
