// Package dexscreener is the REST client for the DexScreener pair-search
// API, used to resolve on-chain token addresses and memecoin symbols.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// Client is the DexScreener REST client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a DexScreener client.
//
// baseURL is the API root, e.g. "https://api.dexscreener.com".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Pair is one liquidity pair from the search endpoint. DexScreener serves
// prices as strings.
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
}

// Price parses the pair's USD price, 0 when absent or malformed.
func (p Pair) Price() float64 {
	v, err := strconv.ParseFloat(p.PriceUSD, 64)
	if err != nil {
		return 0
	}
	return v
}

// Score ranks a pair for resolution: deep liquidity dominates, with recent
// volume as the tiebreaker.
func (p Pair) Score() float64 {
	return 0.7*p.Liquidity.USD + 0.3*p.Volume.H24
}

type searchResponse struct {
	Pairs []Pair `json:"pairs"`
}

// SearchPairs queries the pair search with a free-form query (token address
// or symbol) and returns all matching pairs.
func (c *Client) SearchPairs(ctx context.Context, query string) ([]Pair, error) {
	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/latest/dex/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: search %q: %w", query, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("dexscreener: search %q: %w: status %d", query, domain.ErrUpstream, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("dexscreener: decode search %q: %w", query, err)
	}
	return sr.Pairs, nil
}

// BestPair returns the highest-scoring pair, or false when the list is
// empty.
func BestPair(pairs []Pair) (Pair, bool) {
	if len(pairs) == 0 {
		return Pair{}, false
	}
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Score() > best.Score() {
			best = p
		}
	}
	return best, true
}
