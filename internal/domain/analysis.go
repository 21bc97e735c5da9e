package domain

import "time"

// SentimentLabel is the coarse direction extracted from analysis.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentBearish SentimentLabel = "Bearish"
	SentimentNeutral SentimentLabel = "Neutral"
)

// SentimentScore is the lexicon scorer's output.
type SentimentScore struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
	Positive   int            `json:"positive"`
	Negative   int            `json:"negative"`
}

// AnalysisResult is the response payload for one aggregation request.
// Constructed once per request, immutable, returned and discarded.
type AnalysisResult struct {
	ID          string           `json:"id"`
	Asset       *Asset           `json:"asset"`
	Quote       PriceQuote       `json:"asset_price"`
	Series      PriceSeries      `json:"chart"`
	Sentiment   SentimentScore   `json:"social_sentiment"`
	Narrative   string           `json:"analysis"`
	News        []NewsItem       `json:"news"`
	Metrics     *FinancialRatios `json:"metrics,omitempty"`
	PriceChange float64          `json:"price_change_percentage"`
	DataQuality string           `json:"data_quality"`
	GeneratedAt time.Time        `json:"timestamp"`
}

// QualityFor maps a quote source to the user-facing data_quality tag.
func QualityFor(src QuoteSource) string {
	switch src {
	case SourceSynthetic:
		return "synthetic"
	case SourceCache:
		return "cached"
	default:
		return "live"
	}
}
