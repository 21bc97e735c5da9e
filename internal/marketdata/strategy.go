package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/platform/dexscreener"
	"github.com/chartpulse/chartpulse/internal/platform/fmp"
)

// MarketAPI is the FMP client surface the strategies consume.
type MarketAPI interface {
	GetQuote(ctx context.Context, symbol string) (fmp.Quote, error)
	GetCryptoQuotes(ctx context.Context) ([]fmp.Quote, error)
	GetIntradayBars(ctx context.Context, interval, symbol string) ([]fmp.Bar, error)
	GetDailyBars(ctx context.Context, symbol string, days int) ([]fmp.Bar, error)
	GetStockNews(ctx context.Context, symbol string, limit int) ([]fmp.Article, error)
	GetCryptoNews(ctx context.Context, symbol string, limit int) ([]fmp.Article, error)
	GetForexNews(ctx context.Context, symbol string, limit int) ([]fmp.Article, error)
	GetGeneralNews(ctx context.Context, limit int) ([]fmp.Article, error)
	GetRatios(ctx context.Context, symbol string) ([]fmp.Ratios, error)
}

// PairAPI is the DexScreener client surface the on-chain strategy consumes.
type PairAPI interface {
	SearchPairs(ctx context.Context, query string) ([]dexscreener.Pair, error)
}

// ClassStrategy provides the per-asset-class fallback chains. One
// implementation exists per asset class; the fetcher selects it once from
// the resolved asset and drives the chains through RunTiers.
type ClassStrategy interface {
	QuoteTiers(asset *domain.Asset) []Tier[domain.PriceQuote]
	SeriesTiers(asset *domain.Asset, eod bool) []Tier[domain.PriceSeries]
	FetchNews(ctx context.Context, asset *domain.Asset, limit int) ([]domain.NewsItem, error)
	NewsTTL() time.Duration
}

// NewStrategies builds the full class-to-strategy table.
func NewStrategies(api MarketAPI, pairs PairAPI) map[domain.AssetClass]ClassStrategy {
	return map[domain.AssetClass]ClassStrategy{
		domain.ClassStock:        &stockStrategy{api: api},
		domain.ClassCrypto:       &cryptoStrategy{api: api},
		domain.ClassForex:        &forexStrategy{api: api},
		domain.ClassCommodity:    &commodityStrategy{api: api},
		domain.ClassIndex:        &indexStrategy{api: api},
		domain.ClassOnchainToken: &onchainStrategy{api: api, pairs: pairs},
	}
}

// ---------------------------------------------------------------------------
// Shared conversion helpers
// ---------------------------------------------------------------------------

// quoteFromFMP converts an upstream quote row.
func quoteFromFMP(q fmp.Quote) domain.PriceQuote {
	asOf := time.Now()
	if q.Timestamp > 0 {
		asOf = time.Unix(q.Timestamp, 0)
	}
	return domain.PriceQuote{
		Value:     q.Price,
		AsOf:      asOf,
		ChangePct: q.ChangesPercentage,
		DayHigh:   q.DayHigh,
		DayLow:    q.DayLow,
	}
}

// seriesFromBars converts FMP bars (served newest first) into an ascending
// series. An empty bar list is an error so the tier chain moves on.
func seriesFromBars(bars []fmp.Bar, layout string) (domain.PriceSeries, error) {
	if len(bars) == 0 {
		return domain.PriceSeries{}, fmt.Errorf("empty bar list: %w", domain.ErrBadResponse)
	}

	points := make([]domain.SeriesPoint, 0, len(bars))
	for _, b := range bars {
		ts, err := time.Parse(layout, b.Date)
		if err != nil {
			continue
		}
		points = append(points, domain.SeriesPoint{
			Label:     b.Date,
			Value:     b.Close,
			Timestamp: ts,
		})
	}
	if len(points) < 2 {
		return domain.PriceSeries{}, fmt.Errorf("series too short (%d points): %w", len(points), domain.ErrBadResponse)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return domain.PriceSeries{Points: points}, nil
}

const (
	layoutIntraday = "2006-01-02 15:04:05"
	layoutDaily    = "2006-01-02"
)

// newsFromArticles converts upstream news rows.
func newsFromArticles(articles []fmp.Article) []domain.NewsItem {
	items := make([]domain.NewsItem, 0, len(articles))
	for _, a := range articles {
		published, _ := time.Parse(layoutIntraday, a.PublishedDate)
		items = append(items, domain.NewsItem{
			Title:       a.Title,
			Text:        a.Text,
			URL:         a.URL,
			Site:        a.Site,
			Symbol:      a.Symbol,
			PublishedAt: published,
		})
	}
	return items
}

// isCryptoExchange reports whether the upstream exchange label belongs to
// the crypto quote tables. Used to detect class-mismatched ticker
// collisions (e.g. a crypto symbol answered by an equity row).
func isCryptoExchange(exchange string) bool {
	return strings.EqualFold(exchange, "CRYPTO")
}
