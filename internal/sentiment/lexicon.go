// Package sentiment scores text with a financial word lexicon. It is the
// deterministic layer under the LLM narrative: always available, no
// network, no quota.
package sentiment

import (
	"regexp"
	"strings"

	"github.com/chartpulse/chartpulse/internal/domain"
)

var positiveWords = []string{
	"bullish", "surge", "surged", "rally", "rallied", "gain", "gains",
	"gained", "soar", "soared", "climb", "climbed", "jump", "jumped",
	"strong", "strength", "growth", "profit", "profits", "beat", "beats",
	"upgrade", "upgraded", "outperform", "record", "high", "breakout",
	"momentum", "recovery", "rebound", "optimistic", "positive", "boom",
	"upside", "buy", "accumulate", "winner", "winning", "up",
}

var negativeWords = []string{
	"bearish", "crash", "crashed", "plunge", "plunged", "drop", "dropped",
	"fall", "fell", "falls", "decline", "declined", "loss", "losses",
	"weak", "weakness", "miss", "missed", "downgrade", "downgraded",
	"underperform", "low", "breakdown", "selloff", "sell-off", "fear",
	"panic", "recession", "pessimistic", "negative", "bust", "downside",
	"sell", "dump", "dumped", "loser", "losing", "down", "risk", "warning",
}

var negationWords = []string{
	"not", "no", "never", "isn't", "wasn't", "aren't", "won't", "don't",
	"doesn't", "didn't", "without", "hardly", "barely",
}

var wordPattern = regexp.MustCompile(`[a-z']+(?:-[a-z']+)*`)

var (
	positiveSet = toSet(positiveWords)
	negativeSet = toSet(negativeWords)
	negationSet = toSet(negationWords)
)

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Score tallies lexicon hits on whole words. An odd number of negation
// words flips the polarity by swapping the tallies; an even number cancels
// out. Confidence grows with how lopsided the tallies are:
// 0.5 + 0.5*|pos-neg|/(pos+neg), and a text with no hits is Neutral at 0.5.
func Score(text string) domain.SentimentScore {
	var pos, neg, negations int
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		switch {
		case contains(positiveSet, word):
			pos++
		case contains(negativeSet, word):
			neg++
		case contains(negationSet, word):
			negations++
		}
	}

	if negations%2 == 1 {
		pos, neg = neg, pos
	}

	total := pos + neg
	if total == 0 {
		return domain.SentimentScore{Label: domain.SentimentNeutral, Confidence: 0.5}
	}

	diff := pos - neg
	if diff < 0 {
		diff = -diff
	}
	confidence := 0.5 + 0.5*float64(diff)/float64(total)

	label := domain.SentimentNeutral
	switch {
	case pos > neg:
		label = domain.SentimentBullish
	case neg > pos:
		label = domain.SentimentBearish
	}

	return domain.SentimentScore{
		Label:      label,
		Confidence: confidence,
		Positive:   pos,
		Negative:   neg,
	}
}

// ScoreItems scores the joined titles and bodies of a headline batch as one
// document.
func ScoreItems(items []domain.NewsItem) domain.SentimentScore {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.Title)
		b.WriteString(" ")
		b.WriteString(item.Text)
		b.WriteString(" ")
	}
	return Score(b.String())
}

func contains(set map[string]struct{}, word string) bool {
	_, ok := set[word]
	return ok
}
