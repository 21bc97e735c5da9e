package domain

import "time"

// NewsItem is one headline from an upstream news provider.
type NewsItem struct {
	Title       string    `json:"title"`
	Text        string    `json:"text,omitempty"`
	URL         string    `json:"url,omitempty"`
	Site        string    `json:"site,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsResult carries fetched headlines plus cache provenance flags.
type NewsResult struct {
	Items    []NewsItem    `json:"items"`
	Cached   bool          `json:"cached"`
	CacheAge time.Duration `json:"cache_age,omitempty"`
	Fallback bool          `json:"fallback"`
}

// NewsCacheEntry is the stored form of a news fetch, keyed by symbol+class.
type NewsCacheEntry struct {
	Items     []NewsItem `json:"items"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Age returns how old the entry is.
func (e NewsCacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}
