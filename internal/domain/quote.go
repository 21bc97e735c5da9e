package domain

import "time"

// QuoteSource tags where a price came from so synthetic data stays
// distinguishable from live data all the way to the response.
type QuoteSource string

const (
	SourceLivePrimary   QuoteSource = "live-primary"
	SourceLiveSecondary QuoteSource = "live-secondary"
	SourceCache         QuoteSource = "cache"
	SourceSynthetic     QuoteSource = "synthetic"
)

// PriceQuote is a spot price for one asset.
//
// Invariant: Source is SourceSynthetic only when every live and cache tier
// failed.
type PriceQuote struct {
	Value     float64     `json:"value"`
	Source    QuoteSource `json:"source"`
	AsOf      time.Time   `json:"as_of"`
	ChangePct float64     `json:"change_pct,omitempty"`
	DayHigh   float64     `json:"day_high,omitempty"`
	DayLow    float64     `json:"day_low,omitempty"`
}

// FinancialRatios are trailing-twelve-month valuation metrics, fetched for
// equities to ground the written analysis. Zero fields mean the upstream
// had no figure.
type FinancialRatios struct {
	PERatio       float64 `json:"pe_ratio,omitempty"`
	PriceToSales  float64 `json:"price_to_sales,omitempty"`
	DebtToEquity  float64 `json:"debt_to_equity,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
}

// SeriesPoint is one historical observation.
type SeriesPoint struct {
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"-"`
}

// PriceSeries is an ordered price history, oldest first.
//
// Invariants: monotonic by time, length >= 2 whenever returned to a caller
// (padded with synthetic points otherwise).
type PriceSeries struct {
	Points []SeriesPoint `json:"points"`
	Source QuoteSource   `json:"source"`
}

// Last returns the newest point's value, or 0 for an empty series.
func (s PriceSeries) Last() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Value
}

// Len reports the number of points.
func (s PriceSeries) Len() int { return len(s.Points) }
