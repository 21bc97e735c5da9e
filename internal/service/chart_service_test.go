package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/marketdata"
	"github.com/chartpulse/chartpulse/internal/resolve"
	"github.com/chartpulse/chartpulse/internal/store/memory"
	"github.com/chartpulse/chartpulse/internal/symbols"
)

func newChartService(api marketdata.MarketAPI) *ChartService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := resolve.NewResolver(symbols.NewCatalog(), noPairs{}, nil, nil, logger)
	fetcher := marketdata.NewFetcher(marketdata.NewStrategies(api, noPairs{}), api, memory.NewNewsCache(), logger)
	return NewChartService(resolver, fetcher, logger)
}

func TestChartIntraday(t *testing.T) {
	svc := newChartService(healthyAPI{})

	payload, err := svc.Chart(context.Background(), ChartRequest{Query: "AAPL"})
	require.NoError(t, err)

	assert.Equal(t, "line", payload.Type)
	assert.Equal(t, "AAPL", payload.Symbol)
	assert.Equal(t, "live", payload.DataQuality)
	require.Len(t, payload.Data.Datasets, 1)
	assert.Equal(t, "AAPL", payload.Data.Datasets[0].Label)
	assert.Equal(t, len(payload.Data.Labels), len(payload.Data.Datasets[0].Data))
	assert.GreaterOrEqual(t, len(payload.Data.Labels), 2)

	require.Len(t, payload.Timestamps, len(payload.Data.Labels))
	for i, ts := range payload.Timestamps {
		assert.Positive(t, ts)
		if i > 0 {
			assert.GreaterOrEqual(t, ts, payload.Timestamps[i-1])
		}
	}

	require.NotNil(t, payload.ResolvedAsset)
	assert.Equal(t, "AAPL", payload.ResolvedAsset.DisplaySymbol)
	assert.Equal(t, domain.ClassStock, payload.ResolvedAsset.Class)
}

func TestChartEOD(t *testing.T) {
	svc := newChartService(healthyAPI{})

	payload, err := svc.Chart(context.Background(), ChartRequest{Query: "AAPL", EOD: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-29", "2025-06-30"}, payload.Data.Labels)
	require.Len(t, payload.Timestamps, 2)
	assert.Less(t, payload.Timestamps[0], payload.Timestamps[1])
}

func TestChartSyntheticFallback(t *testing.T) {
	svc := newChartService(downAPI{})

	payload, err := svc.Chart(context.Background(), ChartRequest{Query: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, "synthetic", payload.DataQuality)
	assert.Equal(t, domain.SourceSynthetic, payload.Source)
	assert.GreaterOrEqual(t, len(payload.Data.Labels), 2)
}
