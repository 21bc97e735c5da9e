package marketdata

import (
	"math/rand"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// syntheticDays is how many daily points a fabricated series carries.
const syntheticDays = 90

// defaultPrices anchors synthetic quotes for well-known symbols so a total
// upstream outage still charts in a plausible range.
var defaultPrices = map[string]float64{
	"BTC":    65000,
	"ETH":    3400,
	"SOL":    150,
	"XRP":    0.55,
	"DOGE":   0.12,
	"AAPL":   230,
	"MSFT":   420,
	"GOOGL":  170,
	"AMZN":   185,
	"NVDA":   120,
	"TSLA":   250,
	"EURUSD": 1.08,
	"GBPUSD": 1.27,
	"USDJPY": 150,
	"GOLD":   2400,
	"SILVER": 29,
	"OIL":    78,
	"SPX":    5500,
	"NDX":    17800,
	"DJI":    40000,
}

// classDefaultPrice is the per-class anchor when the symbol is unknown.
var classDefaultPrice = map[domain.AssetClass]float64{
	domain.ClassStock:        100,
	domain.ClassCrypto:       1,
	domain.ClassForex:        1,
	domain.ClassCommodity:    50,
	domain.ClassIndex:        5000,
	domain.ClassOnchainToken: 0.001,
}

// classVolatility scales the synthetic random walk's daily step: crypto
// swings hardest, forex barely moves.
var classVolatility = map[domain.AssetClass]float64{
	domain.ClassStock:        0.02,
	domain.ClassCrypto:       0.06,
	domain.ClassForex:        0.004,
	domain.ClassCommodity:    0.015,
	domain.ClassIndex:        0.012,
	domain.ClassOnchainToken: 0.09,
}

// fallbackPrice returns the anchor price for an asset: its enriched live
// price when resolution found one, then the symbol table, then the class
// default.
func fallbackPrice(asset *domain.Asset) float64 {
	if asset.Price > 0 {
		return asset.Price
	}
	if p, ok := defaultPrices[asset.DisplaySymbol]; ok {
		return p
	}
	if p, ok := classDefaultPrice[asset.Class]; ok {
		return p
	}
	return 100
}

// syntheticQuote fabricates a quote from the default tables.
func syntheticQuote(asset *domain.Asset, now time.Time) domain.PriceQuote {
	price := fallbackPrice(asset)
	return domain.PriceQuote{
		Value:  price,
		Source: domain.SourceSynthetic,
		AsOf:   now,
	}
}

// syntheticSeries fabricates ~90 daily points via a bounded random walk
// that ends exactly at endPrice. The walk is generated backwards from the
// endpoint so the final point needs no adjustment.
func syntheticSeries(asset *domain.Asset, endPrice float64, now time.Time) domain.PriceSeries {
	if endPrice <= 0 {
		endPrice = fallbackPrice(asset)
	}
	vol := classVolatility[asset.Class]
	if vol == 0 {
		vol = 0.02
	}

	rng := rand.New(rand.NewSource(now.UnixNano()))
	points := make([]domain.SeriesPoint, syntheticDays)

	price := endPrice
	for i := syntheticDays - 1; i >= 0; i-- {
		ts := now.AddDate(0, 0, i-syntheticDays+1)
		points[i] = domain.SeriesPoint{
			Label:     ts.Format("2006-01-02"),
			Value:     price,
			Timestamp: ts,
		}
		// Step backwards in time, bounded so the walk cannot collapse to
		// zero or explode.
		step := 1 + (rng.Float64()*2-1)*vol
		if step < 0.75 {
			step = 0.75
		}
		if step > 1.25 {
			step = 1.25
		}
		price /= step
	}
	points[len(points)-1].Value = endPrice

	return domain.PriceSeries{Points: points, Source: domain.SourceSynthetic}
}
