package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/platform/dexscreener"
)

// onchainStrategy serves DEX-traded tokens. DexScreener is the primary
// price source; the market data provider only knows the token if it
// happens to be listed on a centralized exchange too, so its tiers run
// second and most on-chain series end up synthetic.
type onchainStrategy struct {
	api   MarketAPI
	pairs PairAPI
}

var _ ClassStrategy = (*onchainStrategy)(nil)

func (s *onchainStrategy) QuoteTiers(asset *domain.Asset) []Tier[domain.PriceQuote] {
	return []Tier[domain.PriceQuote]{
		{
			Name:   "dex-pair",
			Source: domain.SourceLivePrimary,
			Run: func(ctx context.Context) (domain.PriceQuote, error) {
				return s.quoteFromDex(ctx, asset)
			},
		},
		{
			Name:   "listed-quote",
			Source: domain.SourceLiveSecondary,
			Run: func(ctx context.Context) (domain.PriceQuote, error) {
				q, err := s.api.GetQuote(ctx, listedSymbol(asset))
				if err != nil {
					return domain.PriceQuote{}, err
				}
				return quoteFromFMP(q), nil
			},
		},
	}
}

// quoteFromDex re-searches the token's pair and prices off the deepest
// pool. The contract address is the preferred search term; resolution stored it,
// and an address search cannot collide.
func (s *onchainStrategy) quoteFromDex(ctx context.Context, asset *domain.Asset) (domain.PriceQuote, error) {
	term := asset.Onchain.ContractAddress
	if term == "" {
		term = asset.DisplaySymbol
	}

	pairs, err := s.pairs.SearchPairs(ctx, term)
	if err != nil {
		return domain.PriceQuote{}, err
	}
	best, ok := dexscreener.BestPair(pairs)
	if !ok {
		return domain.PriceQuote{}, fmt.Errorf("marketdata: no pairs for %s: %w", term, domain.ErrNotFound)
	}

	price := best.Price()
	if price <= 0 {
		return domain.PriceQuote{}, fmt.Errorf("marketdata: pair %s has no price: %w", best.PairAddress, domain.ErrBadResponse)
	}
	return domain.PriceQuote{
		Value:     price,
		AsOf:      time.Now(),
		ChangePct: best.PriceChange.H24,
	}, nil
}

func (s *onchainStrategy) SeriesTiers(asset *domain.Asset, eod bool) []Tier[domain.PriceSeries] {
	// No intraday history exists for DEX pairs upstream; a centralized
	// listing's daily bars are the only live shot before synthetic.
	return []Tier[domain.PriceSeries]{
		dailySeriesTier(s.api, listedSymbol(asset), domain.SourceLiveSecondary),
	}
}

func (s *onchainStrategy) FetchNews(ctx context.Context, asset *domain.Asset, limit int) ([]domain.NewsItem, error) {
	articles, err := s.api.GetCryptoNews(ctx, listedSymbol(asset), limit)
	if err != nil {
		return nil, err
	}
	return newsFromArticles(articles), nil
}

func (s *onchainStrategy) NewsTTL() time.Duration { return 15 * time.Minute }

// listedSymbol maps an on-chain token to the USD-pair symbol a centralized
// listing would trade under.
func listedSymbol(asset *domain.Asset) string {
	sym := strings.ToUpper(asset.DisplaySymbol)
	if !strings.HasSuffix(sym, "USD") {
		sym += "USD"
	}
	return sym
}
