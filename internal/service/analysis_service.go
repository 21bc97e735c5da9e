// Package service orchestrates the aggregation pipeline: asset resolution,
// concurrent market data fetches, sentiment scoring, and narrative
// generation, assembled into a single response payload.
package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/marketdata"
	"github.com/chartpulse/chartpulse/internal/narrative"
	"github.com/chartpulse/chartpulse/internal/resolve"
	"github.com/chartpulse/chartpulse/internal/sentiment"
)

// reconcileDivergence is the relative quote-vs-series gap beyond which the
// newest series value overrides the quote for fast-moving classes.
const reconcileDivergence = 0.05

// AnalysisService runs the full aggregation pipeline for one query.
type AnalysisService struct {
	resolver *resolve.Resolver
	fetcher  *marketdata.Fetcher
	analyzer *narrative.Analyzer
	logger   *slog.Logger

	now func() time.Time
}

// NewAnalysisService creates an AnalysisService with all required
// dependencies.
func NewAnalysisService(
	resolver *resolve.Resolver,
	fetcher *marketdata.Fetcher,
	analyzer *narrative.Analyzer,
	logger *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		resolver: resolver,
		fetcher:  fetcher,
		analyzer: analyzer,
		logger:   logger.With(slog.String("component", "analysis")),
		now:      time.Now,
	}
}

// AnalysisRequest carries one aggregation query.
type AnalysisRequest struct {
	// Question is the free-text query to resolve and analyze.
	Question string
	// AssetHint, when set, is resolved instead of the free-text question;
	// clients that already know the instrument skip the fuzzy tiers'
	// guesswork.
	AssetHint string
	// Turns are recent conversation messages fed to the narrative prompt.
	Turns []string
}

func (r AnalysisRequest) resolveQuery() string {
	if r.AssetHint != "" {
		return r.AssetHint
	}
	return r.Question
}

// Analyze resolves the query and aggregates price, chart, headlines,
// sentiment, and narrative into one result. The pipeline never fails on
// upstream outages: resolution falls back to the default asset, data falls
// back to synthetic, and the narrative falls back to fixed text. The
// result's DataQuality tag tells the client what it actually got.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*domain.AnalysisResult, error) {
	query := req.resolveQuery()
	asset, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "resolution failed, using default asset",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		asset = domain.DefaultAsset()
	}

	// Quote, news, and valuation metrics have no ordering dependency;
	// fetch them together. The series waits for the quote so a synthetic
	// chart can land exactly on the price being shown.
	var (
		quote   domain.PriceQuote
		news    domain.NewsResult
		metrics *domain.FinancialRatios
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quote = s.fetcher.GetQuote(gctx, asset)
		return nil
	})
	g.Go(func() error {
		news = s.fetcher.GetNews(gctx, asset)
		return nil
	})
	g.Go(func() error {
		metrics = s.fetcher.GetMetrics(gctx, asset)
		return nil
	})
	_ = g.Wait()

	score := sentiment.ScoreItems(news.Items)

	var (
		series    domain.PriceSeries
		narration narrative.Result
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		series = s.fetcher.GetSeries(gctx, asset, quote.Value, marketdata.SeriesOptions{})
		return nil
	})
	g.Go(func() error {
		narration = s.analyzer.Analyze(gctx, narrative.Request{
			Asset:  asset,
			Quote:  quote,
			Score:  score,
			News:   news.Items,
			Turns:  req.Turns,
			Ratios: metrics,
		})
		return nil
	})
	_ = g.Wait()

	quote = reconcileQuote(asset, quote, series)

	result := &domain.AnalysisResult{
		ID:          uuid.New().String(),
		Asset:       asset,
		Quote:       quote,
		Series:      series,
		Sentiment:   score,
		Narrative:   narration.Text,
		News:        news.Items,
		Metrics:     metrics,
		PriceChange: priceChange(quote, series),
		DataQuality: domain.QualityFor(worstSource(quote.Source, series.Source)),
		GeneratedAt: s.now(),
	}
	return result, nil
}

// reconcileQuote resolves quote-vs-chart disagreement. Crypto quotes lag
// the intraday series under load; when both are live and diverge by more
// than reconcileDivergence the newest series value wins, so the headline
// price always matches the chart's right edge.
func reconcileQuote(asset *domain.Asset, quote domain.PriceQuote, series domain.PriceSeries) domain.PriceQuote {
	if asset.Class != domain.ClassCrypto && asset.Class != domain.ClassOnchainToken {
		return quote
	}
	if quote.Source == domain.SourceSynthetic || series.Source == domain.SourceSynthetic {
		return quote
	}

	last := series.Last()
	if last <= 0 || quote.Value <= 0 {
		return quote
	}
	if math.Abs(quote.Value-last)/last > reconcileDivergence {
		quote.Value = last
	}
	return quote
}

// priceChange prefers the upstream 24h change, falling back to the change
// across the series.
func priceChange(quote domain.PriceQuote, series domain.PriceSeries) float64 {
	if quote.ChangePct != 0 {
		return quote.ChangePct
	}
	if series.Len() < 2 {
		return 0
	}
	first := series.Points[0].Value
	if first <= 0 {
		return 0
	}
	return (series.Last() - first) / first * 100
}

// worstSource ranks sources so mixed results report the weakest one.
func worstSource(a, b domain.QuoteSource) domain.QuoteSource {
	rank := func(s domain.QuoteSource) int {
		switch s {
		case domain.SourceSynthetic:
			return 2
		case domain.SourceCache:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
