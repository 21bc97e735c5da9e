package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/marketdata"
	"github.com/chartpulse/chartpulse/internal/resolve"
)

// ChartPayload is a render-ready line chart in the Chart.js configuration
// shape, plus provenance metadata clients use for badges.
type ChartPayload struct {
	Type       string    `json:"type"`
	Data       ChartData `json:"data"`
	Timestamps []int64   `json:"timestamps"`

	Symbol        string             `json:"symbol"`
	ResolvedAsset *domain.Asset      `json:"resolvedAsset"`
	Source        domain.QuoteSource `json:"source"`
	DataQuality   string             `json:"data_quality"`
	GeneratedAt   time.Time          `json:"timestamp"`
}

// ChartData mirrors Chart.js's data block.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset mirrors Chart.js's dataset block.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartService serves standalone chart requests without the sentiment and
// narrative stages.
type ChartService struct {
	resolver *resolve.Resolver
	fetcher  *marketdata.Fetcher
	logger   *slog.Logger

	now func() time.Time
}

// NewChartService creates a ChartService.
func NewChartService(resolver *resolve.Resolver, fetcher *marketdata.Fetcher, logger *slog.Logger) *ChartService {
	return &ChartService{
		resolver: resolver,
		fetcher:  fetcher,
		logger:   logger.With(slog.String("component", "chart")),
		now:      time.Now,
	}
}

// ChartRequest selects what to chart.
type ChartRequest struct {
	// Query is a symbol, free text, or contract address.
	Query string
	// EOD restricts the series to daily end-of-day bars.
	EOD bool
	// Dex hints that the instrument trades on-chain; resolution goes
	// straight to the pair search.
	Dex bool
}

// Chart resolves the request and returns its price history as a Chart.js
// payload. Like the full pipeline it never fails on upstream outages; the
// payload's source tag says whether the chart is live or synthetic.
func (s *ChartService) Chart(ctx context.Context, req ChartRequest) (*ChartPayload, error) {
	resolveFn := s.resolver.Resolve
	if req.Dex {
		resolveFn = s.resolver.ResolveOnChain
	}
	asset, err := resolveFn(ctx, req.Query)
	if err != nil {
		s.logger.WarnContext(ctx, "resolution failed, using default asset",
			slog.String("query", req.Query),
			slog.String("error", err.Error()),
		)
		asset = domain.DefaultAsset()
	}

	series := s.fetcher.GetSeries(ctx, asset, asset.Price, marketdata.SeriesOptions{EOD: req.EOD})

	labels := make([]string, series.Len())
	values := make([]float64, series.Len())
	stamps := make([]int64, series.Len())
	for i, p := range series.Points {
		labels[i] = p.Label
		values[i] = p.Value
		stamps[i] = p.Timestamp.Unix()
	}

	return &ChartPayload{
		Type: "line",
		Data: ChartData{
			Labels: labels,
			Datasets: []ChartDataset{
				{Label: asset.DisplaySymbol, Data: values},
			},
		},
		Timestamps:    stamps,
		Symbol:        asset.DisplaySymbol,
		ResolvedAsset: asset,
		Source:        series.Source,
		DataQuality:   domain.QualityFor(series.Source),
		GeneratedAt:   s.now(),
	}, nil
}
