package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// cryptoStrategy serves exchange-listed cryptocurrencies under their
// USD-pair symbols (BTCUSD, ETHUSD). Short tickers collide with equities,
// so the primary quote tier rejects rows answered from a non-crypto
// exchange and a table re-match tier recovers the right row.
type cryptoStrategy struct {
	api MarketAPI
}

var _ ClassStrategy = (*cryptoStrategy)(nil)

func (s *cryptoStrategy) QuoteTiers(asset *domain.Asset) []Tier[domain.PriceQuote] {
	return []Tier[domain.PriceQuote]{
		{
			Name:   "quote",
			Source: domain.SourceLivePrimary,
			Run: func(ctx context.Context) (domain.PriceQuote, error) {
				q, err := s.api.GetQuote(ctx, asset.QuerySymbol)
				if err != nil {
					return domain.PriceQuote{}, err
				}
				if q.Exchange != "" && !isCryptoExchange(q.Exchange) {
					return domain.PriceQuote{}, fmt.Errorf(
						"marketdata: %s answered from %s, not a crypto exchange: %w",
						asset.QuerySymbol, q.Exchange, domain.ErrBadResponse)
				}
				return quoteFromFMP(q), nil
			},
		},
		{
			Name:   "crypto-table",
			Source: domain.SourceLiveSecondary,
			Run: func(ctx context.Context) (domain.PriceQuote, error) {
				return s.quoteFromTable(ctx, asset.QuerySymbol)
			},
		},
	}
}

// quoteFromTable re-matches the symbol against the full crypto quote table.
// This recovers collided tickers the single-quote endpoint misroutes.
func (s *cryptoStrategy) quoteFromTable(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	quotes, err := s.api.GetCryptoQuotes(ctx)
	if err != nil {
		return domain.PriceQuote{}, err
	}
	for _, q := range quotes {
		if strings.EqualFold(q.Symbol, symbol) {
			return quoteFromFMP(q), nil
		}
	}
	return domain.PriceQuote{}, fmt.Errorf("marketdata: %s not in crypto table: %w", symbol, domain.ErrNotFound)
}

func (s *cryptoStrategy) SeriesTiers(asset *domain.Asset, eod bool) []Tier[domain.PriceSeries] {
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

func (s *cryptoStrategy) FetchNews(ctx context.Context, asset *domain.Asset, limit int) ([]domain.NewsItem, error) {
	articles, err := s.api.GetCryptoNews(ctx, asset.QuerySymbol, limit)
	if err != nil {
		return nil, err
	}
	return newsFromArticles(articles), nil
}

func (s *cryptoStrategy) NewsTTL() time.Duration { return 15 * time.Minute }
