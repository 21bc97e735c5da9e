package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/service"
)

// maxQueryLen bounds the free-text query so the resolver and LLM prompts
// stay small.
const maxQueryLen = 200

// AnalysisRunner is the aggregation pipeline the handler drives.
type AnalysisRunner interface {
	Analyze(ctx context.Context, req service.AnalysisRequest) (*domain.AnalysisResult, error)
}

// SentimentHandler serves the full aggregation endpoint.
type SentimentHandler struct {
	svc    AnalysisRunner
	logger *slog.Logger
}

// NewSentimentHandler creates a SentimentHandler.
func NewSentimentHandler(svc AnalysisRunner, logger *slog.Logger) *SentimentHandler {
	return &SentimentHandler{
		svc:    svc,
		logger: logHandler(logger, "sentiment"),
	}
}

type sentimentRequest struct {
	Question string   `json:"question"`
	Query    string   `json:"query"`  // older clients
	Symbol   string   `json:"symbol"` // older clients
	Asset    string   `json:"asset"`
	Context  []string `json:"context"`
}

func (req sentimentRequest) question() string {
	for _, q := range []string{req.Question, req.Query, req.Symbol} {
		if q = strings.TrimSpace(q); q != "" {
			return q
		}
	}
	return ""
}

// Analyze runs the aggregation pipeline for the requested asset.
// POST /api/sentiment
func (h *SentimentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	question := req.question()
	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(question) > maxQueryLen {
		writeError(w, http.StatusBadRequest, "question too long")
		return
	}
	hint := strings.TrimSpace(req.Asset)
	if len(hint) > maxQueryLen {
		writeError(w, http.StatusBadRequest, "asset too long")
		return
	}

	result, err := h.svc.Analyze(r.Context(), service.AnalysisRequest{
		Question:  question,
		AssetHint: hint,
		Turns:     req.Context,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed",
			slog.String("question", question),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
