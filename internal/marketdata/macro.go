package marketdata

import (
	"context"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// forexStrategy serves currency pairs (EURUSD, USDJPY). FX quotes move
// slowly, so the news cache holds longer than crypto's.
type forexStrategy struct {
	api MarketAPI
}

var _ ClassStrategy = (*forexStrategy)(nil)

func (s *forexStrategy) QuoteTiers(asset *domain.Asset) []Tier[domain.PriceQuote] {
	return directQuoteTiers(s.api, asset)
}

func (s *forexStrategy) SeriesTiers(asset *domain.Asset, eod bool) []Tier[domain.PriceSeries] {
	if eod {
		return []Tier[domain.PriceSeries]{
			dailySeriesTier(s.api, asset.QuerySymbol, domain.SourceLivePrimary),
		}
	}
	return []Tier[domain.PriceSeries]{
		intradaySeriesTier(s.api, "1hour", asset.QuerySymbol, domain.SourceLivePrimary),
		dailySeriesTier(s.api, asset.QuerySymbol, domain.SourceLiveSecondary),
	}
}

func (s *forexStrategy) FetchNews(ctx context.Context, asset *domain.Asset, limit int) ([]domain.NewsItem, error) {
	articles, err := s.api.GetForexNews(ctx, asset.QuerySymbol, limit)
	if err != nil {
		return nil, err
	}
	return newsFromArticles(articles), nil
}

func (s *forexStrategy) NewsTTL() time.Duration { return 20 * time.Minute }

// commodityStrategy serves futures-quoted commodities under their contract
// symbols (GCUSD for gold). No commodity-specific news feed exists
// upstream, so headlines come from the general feed.
type commodityStrategy struct {
	api MarketAPI
}

var _ ClassStrategy = (*commodityStrategy)(nil)

func (s *commodityStrategy) QuoteTiers(asset *domain.Asset) []Tier[domain.PriceQuote] {
	return directQuoteTiers(s.api, asset)
}

func (s *commodityStrategy) SeriesTiers(asset *domain.Asset, eod bool) []Tier[domain.PriceSeries] {
	if eod {
		return []Tier[domain.PriceSeries]{
			dailySeriesTier(s.api, asset.QuerySymbol, domain.SourceLivePrimary),
		}
	}
	return []Tier[domain.PriceSeries]{
		intradaySeriesTier(s.api, "1hour", asset.QuerySymbol, domain.SourceLivePrimary),
		dailySeriesTier(s.api, asset.QuerySymbol, domain.SourceLiveSecondary),
	}
}

func (s *commodityStrategy) FetchNews(ctx context.Context, asset *domain.Asset, limit int) ([]domain.NewsItem, error) {
	articles, err := s.api.GetGeneralNews(ctx, limit)
	if err != nil {
		return nil, err
	}
	return newsFromArticles(articles), nil
}

func (s *commodityStrategy) NewsTTL() time.Duration { return time.Hour }

// indexStrategy serves market indices under their caret symbols (^GSPC).
// Indices chart like equities but have no per-symbol news feed.
type indexStrategy struct {
	api MarketAPI
}

var _ ClassStrategy = (*indexStrategy)(nil)

func (s *indexStrategy) QuoteTiers(asset *domain.Asset) []Tier[domain.PriceQuote] {
	return directQuoteTiers(s.api, asset)
}

func (s *indexStrategy) SeriesTiers(asset *domain.Asset, eod bool) []Tier[domain.PriceSeries] {
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

func (s *indexStrategy) FetchNews(ctx context.Context, asset *domain.Asset, limit int) ([]domain.NewsItem, error) {
	articles, err := s.api.GetGeneralNews(ctx, limit)
	if err != nil {
		return nil, err
	}
	return newsFromArticles(articles), nil
}

func (s *indexStrategy) NewsTTL() time.Duration { return 30 * time.Minute }

// directQuoteTiers is the plain quote chain shared by classes without
// collision handling: quote endpoint, then newest daily close.
func directQuoteTiers(api MarketAPI, asset *domain.Asset) []Tier[domain.PriceQuote] {
	return []Tier[domain.PriceQuote]{
		{
			Name:   "quote",
			Source: domain.SourceLivePrimary,
			Run: func(ctx context.Context) (domain.PriceQuote, error) {
				q, err := api.GetQuote(ctx, asset.QuerySymbol)
				if err != nil {
					return domain.PriceQuote{}, err
				}
				return quoteFromFMP(q), nil
			},
		},
		{
			Name:   "daily-close",
			Source: domain.SourceLiveSecondary,
			Run: func(ctx context.Context) (domain.PriceQuote, error) {
				return quoteFromDailyClose(ctx, api, asset.QuerySymbol)
			},
		},
	}
}
