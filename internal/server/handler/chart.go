package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/chartpulse/chartpulse/internal/service"
)

// ChartRenderer is the chart pipeline the handler drives.
type ChartRenderer interface {
	Chart(ctx context.Context, req service.ChartRequest) (*service.ChartPayload, error)
}

// ChartHandler serves the standalone chart endpoints.
type ChartHandler struct {
	svc    ChartRenderer
	logger *slog.Logger
}

// NewChartHandler creates a ChartHandler.
func NewChartHandler(svc ChartRenderer, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{
		svc:    svc,
		logger: logHandler(logger, "chart"),
	}
}

// GetChart returns the price chart for the queried asset. The interval
// parameter selects daily bars; anything else gets the intraday default.
// GET /api/chart?symbol=...&interval=...&isDex=...
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, eodInterval(r.URL.Query().Get("interval")))
}

// GetChartEOD returns the daily end-of-day chart for the queried asset.
// GET /api/chart/eod?symbol=...
func (h *ChartHandler) GetChartEOD(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *ChartHandler) serve(w http.ResponseWriter, r *http.Request, eod bool) {
	query := queryParam(r, "query", "symbol", "contractAddress")
	if query == "" {
		writeError(w, http.StatusBadRequest, "symbol or contractAddress parameter is required")
		return
	}
	if len(query) > maxQueryLen {
		writeError(w, http.StatusBadRequest, "query too long")
		return
	}
	isDex, _ := strconv.ParseBool(r.URL.Query().Get("isDex"))

	payload, err := h.svc.Chart(r.Context(), service.ChartRequest{
		Query: query,
		EOD:   eod,
		Dex:   isDex,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "chart failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "chart failed")
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// eodInterval reports whether the requested interval means daily bars.
func eodInterval(interval string) bool {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case "daily", "1day", "eod":
		return true
	default:
		return false
	}
}
