package narrative

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/platform/llm"
)

type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedCompleter) Complete(_ context.Context, _ []llm.Message) (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var reply string
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	return reply, err
}

func newTestAnalyzer(c Completer) *Analyzer {
	a := NewAnalyzer(c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.sleep = func(context.Context, time.Duration) error { return nil }
	return a
}

func testAsset() *domain.Asset {
	return &domain.Asset{DisplaySymbol: "BTC", Name: "Bitcoin", Class: domain.ClassCrypto}
}

func TestAnalyzeSuccess(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"Momentum favors buyers; the outlook is bullish over the coming weeks."}}
	a := newTestAnalyzer(c)

	res := a.Analyze(context.Background(), Request{Asset: testAsset(), Quote: domain.PriceQuote{Value: 65000}})
	assert.False(t, res.Fallback)
	assert.Equal(t, domain.SentimentBullish, res.Label)
	assert.Equal(t, 1, c.calls)
}

func TestAnalyzeRetriesThenSucceeds(t *testing.T) {
	c := &scriptedCompleter{
		errs:    []error{errors.New("timeout"), errors.New("rate limited"), nil},
		replies: []string{"", "", "Conditions look bearish near term."},
	}
	a := newTestAnalyzer(c)

	res := a.Analyze(context.Background(), Request{Asset: testAsset()})
	assert.False(t, res.Fallback)
	assert.Equal(t, domain.SentimentBearish, res.Label)
	assert.Equal(t, 3, c.calls)
}

func TestAnalyzeFallbackAfterAllAttempts(t *testing.T) {
	c := &scriptedCompleter{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	a := newTestAnalyzer(c)

	res := a.Analyze(context.Background(), Request{Asset: testAsset()})
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackText, res.Text)
	assert.Equal(t, domain.SentimentNeutral, res.Label)
	assert.Equal(t, 3, c.calls)
}

func TestAnalyzeNilCompleter(t *testing.T) {
	a := newTestAnalyzer(nil)

	res := a.Analyze(context.Background(), Request{Asset: testAsset()})
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackText, res.Text)
}

func TestAnalyzeEmptyReplyRetries(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"   ", "A neutral consolidation phase."}}
	a := newTestAnalyzer(c)

	res := a.Analyze(context.Background(), Request{Asset: testAsset()})
	assert.False(t, res.Fallback)
	assert.Equal(t, domain.SentimentNeutral, res.Label)
	assert.Equal(t, 2, c.calls)
}

func TestExtractLabel(t *testing.T) {
	cases := map[string]domain.SentimentLabel{
		"Overall we remain BULLISH on the asset":       domain.SentimentBullish,
		"the tone turned bearish after the data":       domain.SentimentBearish,
		"a neutral stance is appropriate":              domain.SentimentNeutral,
		"first bullish, later arguments sound bearish": domain.SentimentBullish,
		"no directional language here":                 domain.SentimentNeutral,
		"bullishness abounds but the word is embedded": domain.SentimentNeutral,
	}
	for text, want := range cases {
		assert.Equal(t, want, ExtractLabel(text), text)
	}
}

func TestBuildPromptIncludesConversationTurns(t *testing.T) {
	req := Request{
		Asset: testAsset(),
		Quote: domain.PriceQuote{Value: 65000},
		Turns: []string{"is btc overbought?", "what about the halving?"},
	}
	prompt := buildPrompt(req)

	require.Contains(t, prompt, "Recent conversation:")
	assert.Contains(t, prompt, "> is btc overbought?")
	assert.Contains(t, prompt, "> what about the halving?")
}

func TestBuildPromptCapsConversationTurns(t *testing.T) {
	turns := make([]string, maxTurns+4)
	for i := range turns {
		turns[i] = "turn " + strings.Repeat("x", i+1)
	}
	prompt := buildPrompt(Request{Asset: testAsset(), Turns: turns})

	count := 0
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "> ") {
			count++
		}
	}
	require.Equal(t, maxTurns, count)
	// Only the most recent turns survive the cap.
	assert.NotContains(t, prompt, "> turn x\n")
	assert.Contains(t, prompt, "> "+turns[len(turns)-1])
}

func TestBuildPromptIncludesValuationRatios(t *testing.T) {
	req := Request{
		Asset:  testAsset(),
		Ratios: &domain.FinancialRatios{PERatio: 28.4, PriceToSales: 7.1, DebtToEquity: 1.6, DividendYield: 0.0052},
	}
	prompt := buildPrompt(req)

	require.Contains(t, prompt, "Valuation (TTM):")
	assert.Contains(t, prompt, "P/E 28.40")
	assert.Contains(t, prompt, "dividend yield 0.52%")

	bare := buildPrompt(Request{Asset: testAsset()})
	assert.NotContains(t, bare, "Valuation")
}

func TestBuildPromptCapsSnippets(t *testing.T) {
	news := make([]domain.NewsItem, 15)
	for i := range news {
		news[i] = domain.NewsItem{Title: "headline"}
	}
	prompt := buildPrompt(Request{Asset: testAsset(), Quote: domain.PriceQuote{Value: 1}, News: news})

	count := 0
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "- ") {
			count++
		}
	}
	require.Equal(t, maxSnippets, count)
}
