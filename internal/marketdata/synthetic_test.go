package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/domain"
)

func TestSyntheticSeriesShape(t *testing.T) {
	asset := domain.DefaultAsset()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	series := syntheticSeries(asset, 65000, now)

	require.Equal(t, syntheticDays, series.Len())
	assert.Equal(t, domain.SourceSynthetic, series.Source)

	// The walk lands exactly on the anchor price.
	assert.Equal(t, 65000.0, series.Last())

	for i, p := range series.Points {
		assert.Greater(t, p.Value, 0.0, "point %d must stay positive", i)
		if i > 0 {
			assert.True(t, series.Points[i-1].Timestamp.Before(p.Timestamp),
				"timestamps must ascend at point %d", i)
		}
	}
	assert.Equal(t, "2025-06-01", series.Points[len(series.Points)-1].Label)
}

func TestSyntheticSeriesBoundedSteps(t *testing.T) {
	asset := &domain.Asset{DisplaySymbol: "PEPE", Class: domain.ClassOnchainToken}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	series := syntheticSeries(asset, 0.0000012, now)
	require.Equal(t, syntheticDays, series.Len())

	for i := 1; i < series.Len(); i++ {
		prev := series.Points[i-1].Value
		cur := series.Points[i].Value
		ratio := cur / prev
		assert.GreaterOrEqual(t, ratio, 0.74, "step %d collapsed", i)
		assert.LessOrEqual(t, ratio, 1.36, "step %d exploded", i)
	}
}

func TestSyntheticSeriesZeroAnchor(t *testing.T) {
	asset := &domain.Asset{DisplaySymbol: "BTC", Class: domain.ClassCrypto}

	series := syntheticSeries(asset, 0, time.Now())
	assert.Equal(t, defaultPrices["BTC"], series.Last(), "zero anchor falls back to the symbol table")
}

func TestSyntheticQuote(t *testing.T) {
	now := time.Now()

	q := syntheticQuote(&domain.Asset{DisplaySymbol: "AAPL", Class: domain.ClassStock}, now)
	assert.Equal(t, defaultPrices["AAPL"], q.Value)
	assert.Equal(t, domain.SourceSynthetic, q.Source)

	// Unknown symbol uses the class default.
	q = syntheticQuote(&domain.Asset{DisplaySymbol: "ZZZZ", Class: domain.ClassIndex}, now)
	assert.Equal(t, classDefaultPrice[domain.ClassIndex], q.Value)

	// An enriched resolution price is the strongest anchor.
	q = syntheticQuote(&domain.Asset{DisplaySymbol: "ZZZZ", Class: domain.ClassStock, Price: 77}, now)
	assert.Equal(t, 77.0, q.Value)
}
