// Package narrative produces the written market analysis through a hosted
// LLM, with a deterministic fallback so the response never ships without
// one.
package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/platform/llm"
)

// Completer is the LLM dependency.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// maxSnippets caps how many headlines feed the prompt.
const maxSnippets = 10

// maxSnippetChars truncates each headline body so one long article cannot
// crowd out the rest of the prompt.
const maxSnippetChars = 2000

// maxTurns caps how many recent conversation messages feed the prompt.
const maxTurns = 6

// attemptTimeouts widen per retry: a slow model gets more room before the
// fallback takes over.
var attemptTimeouts = []time.Duration{30 * time.Second, 40 * time.Second, 50 * time.Second}

// attemptBackoffs separate the retries.
var attemptBackoffs = []time.Duration{2 * time.Second, 4 * time.Second}

// FallbackText is served when every LLM attempt fails. Fixed wording so
// clients can detect it.
const FallbackText = "Market analysis is temporarily unavailable. The price and sentiment data shown are current; check back shortly for a full written analysis."

const systemPrompt = `You are a market analyst. Write a concise 2-3 paragraph analysis of the asset described below, grounded in the provided price data and headlines. State a clear directional view using exactly one of the words "bullish", "bearish", or "neutral". Do not invent data points.`

// labelPattern finds the first directional word in a reply, case
// insensitive, on word boundaries.
var labelPattern = regexp.MustCompile(`(?i)\b(bullish|bearish|neutral)\b`)

// Analyzer drives the LLM narrative generation.
type Analyzer struct {
	llm    Completer
	logger *slog.Logger

	sleep func(context.Context, time.Duration) error
}

// NewAnalyzer creates an Analyzer. completer may be nil, in which case
// every call serves the fallback.
func NewAnalyzer(completer Completer, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		llm:    completer,
		logger: logger.With(slog.String("component", "narrative")),
		sleep:  sleepCtx,
	}
}

// Result is a generated narrative plus the directional label extracted
// from it.
type Result struct {
	Text     string
	Label    domain.SentimentLabel
	Fallback bool
}

// Request is everything the prompt is built from. Turns and Ratios are
// optional; absent inputs simply leave their prompt section out.
type Request struct {
	Asset  *domain.Asset
	Quote  domain.PriceQuote
	Score  domain.SentimentScore
	News   []domain.NewsItem
	Turns  []string
	Ratios *domain.FinancialRatios
}

// Analyze generates the written analysis. Each attempt runs under its own
// widening timeout; when all attempts fail the fixed fallback text comes
// back with a Neutral label and Fallback set.
func (a *Analyzer) Analyze(ctx context.Context, req Request) Result {
	if a.llm == nil {
		return fallbackResult()
	}

	prompt := buildPrompt(req)
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	for attempt, timeout := range attemptTimeouts {
		if attempt > 0 {
			if err := a.sleep(ctx, attemptBackoffs[attempt-1]); err != nil {
				return fallbackResult()
			}
		}

		text, err := a.complete(ctx, messages, timeout)
		if err != nil {
			a.logger.WarnContext(ctx, "narrative attempt failed",
				slog.Int("attempt", attempt+1),
				slog.String("symbol", req.Asset.DisplaySymbol),
				slog.String("error", err.Error()),
			)
			continue
		}
		return Result{Text: text, Label: ExtractLabel(text)}
	}

	return fallbackResult()
}

func (a *Analyzer) complete(ctx context.Context, messages []llm.Message, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := a.llm.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("narrative: empty completion: %w", domain.ErrBadResponse)
	}
	return text, nil
}

// ExtractLabel returns the first directional word in the text, Neutral when
// none appears.
func ExtractLabel(text string) domain.SentimentLabel {
	match := labelPattern.FindString(text)
	switch strings.ToLower(match) {
	case "bullish":
		return domain.SentimentBullish
	case "bearish":
		return domain.SentimentBearish
	default:
		return domain.SentimentNeutral
	}
}

func fallbackResult() Result {
	return Result{Text: FallbackText, Label: domain.SentimentNeutral, Fallback: true}
}

// buildPrompt assembles the analysis context: identity, price, valuation
// ratios, lexicon read, recent conversation turns, and up to maxSnippets
// truncated headlines.
func buildPrompt(req Request) string {
	asset, quote, score := req.Asset, req.Quote, req.Score
	var b strings.Builder

	fmt.Fprintf(&b, "Asset: %s (%s), class %s\n", asset.Name, asset.DisplaySymbol, asset.Class)
	fmt.Fprintf(&b, "Price: %.6g USD (source: %s)\n", quote.Value, quote.Source)
	if quote.ChangePct != 0 {
		fmt.Fprintf(&b, "24h change: %.2f%%\n", quote.ChangePct)
	}
	if r := req.Ratios; r != nil {
		fmt.Fprintf(&b, "Valuation (TTM): P/E %.2f, price/sales %.2f, debt/equity %.2f, dividend yield %.2f%%\n",
			r.PERatio, r.PriceToSales, r.DebtToEquity, r.DividendYield*100)
	}
	fmt.Fprintf(&b, "Headline sentiment: %s (confidence %.2f, %d positive / %d negative signals)\n",
		score.Label, score.Confidence, score.Positive, score.Negative)

	if turns := req.Turns; len(turns) > 0 {
		if len(turns) > maxTurns {
			turns = turns[len(turns)-maxTurns:]
		}
		b.WriteString("\nRecent conversation:\n")
		for _, turn := range turns {
			fmt.Fprintf(&b, "> %s\n", truncate(turn, maxSnippetChars))
		}
	}

	if len(req.News) == 0 {
		b.WriteString("\nNo recent headlines available.\n")
		return b.String()
	}

	b.WriteString("\nRecent headlines:\n")
	for i, item := range req.News {
		if i >= maxSnippets {
			break
		}
		fmt.Fprintf(&b, "- %s", item.Title)
		if text := truncate(item.Text, maxSnippetChars); text != "" {
			fmt.Fprintf(&b, ": %s", text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
