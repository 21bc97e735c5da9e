package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/service"
)

type fakeRunner struct {
	got    service.AnalysisRequest
	result *domain.AnalysisResult
	err    error
}

func (f *fakeRunner) Analyze(_ context.Context, req service.AnalysisRequest) (*domain.AnalysisResult, error) {
	f.got = req
	if f.result == nil && f.err == nil {
		return &domain.AnalysisResult{ID: "test"}, nil
	}
	return f.result, f.err
}

func postSentiment(t *testing.T, h *SentimentHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/sentiment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func newSentimentHandler(runner *fakeRunner) *SentimentHandler {
	return NewSentimentHandler(runner, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSentimentQuestionField(t *testing.T) {
	runner := &fakeRunner{}
	rec := postSentiment(t, newSentimentHandler(runner), `{"question":"AAPL"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", runner.got.Question)
}

func TestSentimentLegacyFieldAliases(t *testing.T) {
	for _, body := range []string{`{"query":"AAPL"}`, `{"symbol":"AAPL"}`} {
		runner := &fakeRunner{}
		rec := postSentiment(t, newSentimentHandler(runner), body)

		require.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, "AAPL", runner.got.Question, body)
	}
}

func TestSentimentAssetHintAndContext(t *testing.T) {
	runner := &fakeRunner{}
	body := `{"question":"is it overvalued?","asset":"AAPL","context":["earlier turn","another turn"]}`
	rec := postSentiment(t, newSentimentHandler(runner), body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "is it overvalued?", runner.got.Question)
	assert.Equal(t, "AAPL", runner.got.AssetHint)
	assert.Equal(t, []string{"earlier turn", "another turn"}, runner.got.Turns)
}

func TestSentimentMissingQuestion(t *testing.T) {
	for _, body := range []string{`{}`, `{"question":"   "}`} {
		rec := postSentiment(t, newSentimentHandler(&fakeRunner{}), body)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "question is required", body)
	}
}

func TestSentimentInvalidJSON(t *testing.T) {
	rec := postSentiment(t, newSentimentHandler(&fakeRunner{}), `{"question":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSentimentQuestionTooLong(t *testing.T) {
	body := `{"question":"` + strings.Repeat("a", maxQueryLen+1) + `"}`
	rec := postSentiment(t, newSentimentHandler(&fakeRunner{}), body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "question too long")
}

func TestSentimentPipelineError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	rec := postSentiment(t, newSentimentHandler(runner), `{"question":"AAPL"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "analysis failed")
}
