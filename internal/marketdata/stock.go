package marketdata

import (
	"context"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// stockStrategy serves listed equities. Intraday charts degrade from 4-hour
// bars through 1-hour bars to daily closes before the fetcher goes
// synthetic.
type stockStrategy struct {
	api MarketAPI
}

var _ ClassStrategy = (*stockStrategy)(nil)

func (s *stockStrategy) QuoteTiers(asset *domain.Asset) []Tier[domain.PriceQuote] {
	return directQuoteTiers(s.api, asset)
}

func (s *stockStrategy) SeriesTiers(asset *domain.Asset, eod bool) []Tier[domain.PriceSeries] {
	if eod {
		return []Tier[domain.PriceSeries]{
			dailySeriesTier(s.api, asset.QuerySymbol, domain.SourceLivePrimary),
		}
	}
	return []Tier[domain.PriceSeries]{
		intradaySeriesTier(s.api, "4hour", asset.QuerySymbol, domain.SourceLivePrimary),
		intradaySeriesTier(s.api, "1hour", asset.QuerySymbol, domain.SourceLiveSecondary),
		dailySeriesTier(s.api, asset.QuerySymbol, domain.SourceLiveSecondary),
	}
}

func (s *stockStrategy) FetchNews(ctx context.Context, asset *domain.Asset, limit int) ([]domain.NewsItem, error) {
	articles, err := s.api.GetStockNews(ctx, asset.DisplaySymbol, limit)
	if err != nil {
		return nil, err
	}
	return newsFromArticles(articles), nil
}

func (s *stockStrategy) NewsTTL() time.Duration { return 30 * time.Minute }

// ---------------------------------------------------------------------------
// Tier constructors shared across classes
// ---------------------------------------------------------------------------

func intradaySeriesTier(api MarketAPI, interval, symbol string, source domain.QuoteSource) Tier[domain.PriceSeries] {
	return Tier[domain.PriceSeries]{
		Name:   "intraday-" + interval,
		Source: source,
		Run: func(ctx context.Context) (domain.PriceSeries, error) {
			bars, err := api.GetIntradayBars(ctx, interval, symbol)
			if err != nil {
				return domain.PriceSeries{}, err
			}
			return seriesFromBars(bars, layoutIntraday)
		},
	}
}

func dailySeriesTier(api MarketAPI, symbol string, source domain.QuoteSource) Tier[domain.PriceSeries] {
	return Tier[domain.PriceSeries]{
		Name:   "daily",
		Source: source,
		Run: func(ctx context.Context) (domain.PriceSeries, error) {
			bars, err := api.GetDailyBars(ctx, symbol, syntheticDays)
			if err != nil {
				return domain.PriceSeries{}, err
			}
			return seriesFromBars(bars, layoutDaily)
		},
	}
}

// quoteFromDailyClose derives a spot quote from the newest daily bar. Used
// as the secondary quote tier when the quote endpoint itself is down.
func quoteFromDailyClose(ctx context.Context, api MarketAPI, symbol string) (domain.PriceQuote, error) {
	bars, err := api.GetDailyBars(ctx, symbol, 2)
	if err != nil {
		return domain.PriceQuote{}, err
	}
	series, err := seriesFromBars(bars, layoutDaily)
	if err != nil {
		return domain.PriceQuote{}, err
	}
	last := series.Points[len(series.Points)-1]

	q := domain.PriceQuote{
		Value: last.Value,
		AsOf:  last.Timestamp,
	}
	if prev := series.Points[len(series.Points)-2].Value; prev > 0 {
		q.ChangePct = (last.Value - prev) / prev * 100
	}
	return q, nil
}
