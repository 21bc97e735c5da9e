package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chartpulse/chartpulse/internal/domain"
)

func TestScoreBullish(t *testing.T) {
	s := Score("Shares surge on strong growth and record profits")
	assert.Equal(t, domain.SentimentBullish, s.Label)
	assert.Greater(t, s.Positive, 0)
	assert.Zero(t, s.Negative)
	assert.Equal(t, 1.0, s.Confidence, "unanimous tallies give full confidence")
}

func TestScoreBearish(t *testing.T) {
	s := Score("Stock plunged after the earnings miss, selloff deepens on recession fear")
	assert.Equal(t, domain.SentimentBearish, s.Label)
	assert.Greater(t, s.Negative, s.Positive)
}

func TestScoreNeutralNoHits(t *testing.T) {
	s := Score("The company held its annual meeting on Tuesday")
	assert.Equal(t, domain.SentimentNeutral, s.Label)
	assert.Equal(t, 0.5, s.Confidence)
	assert.Zero(t, s.Positive)
	assert.Zero(t, s.Negative)
}

func TestScoreNegationFlip(t *testing.T) {
	// pos: bullish, strong (2); neg: bearish (1); one negation swaps them.
	s := Score("The stock is bullish and strong, not bearish")
	assert.Equal(t, domain.SentimentBearish, s.Label)
	assert.Equal(t, 1, s.Positive)
	assert.Equal(t, 2, s.Negative)
	assert.InDelta(t, 0.5+0.5*(1.0/3.0), s.Confidence, 1e-9)
}

func TestScoreDoubleNegationCancels(t *testing.T) {
	s := Score("It is not true that the outlook is not bullish")
	assert.Equal(t, domain.SentimentBullish, s.Label)
}

func TestScoreWholeWordsOnly(t *testing.T) {
	// "upholstery" contains "up"; "download" contains "down". Neither is a hit.
	s := Score("The upholstery business published its download figures")
	assert.Equal(t, domain.SentimentNeutral, s.Label)
	assert.Zero(t, s.Positive)
	assert.Zero(t, s.Negative)
}

func TestScoreItems(t *testing.T) {
	items := []domain.NewsItem{
		{Title: "Markets rally", Text: "Broad gains across sectors"},
		{Title: "Tech climbs on upbeat outlook"},
	}
	s := ScoreItems(items)
	assert.Equal(t, domain.SentimentBullish, s.Label)
}
