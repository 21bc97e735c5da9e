// Package fmp is the REST client for the Financial Modeling Prep API, the
// primary market-data provider for quotes, historical bars, and news.
package fmp

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

// Client is the FMP REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an FMP client.
//
// baseURL is the API root, e.g. "https://financialmodelingprep.com/api/v3".
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Quote is one row of the FMP quote tables.
type Quote struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	Exchange          string  `json:"exchange"`
	Timestamp         int64   `json:"timestamp"`
}

// Bar is one historical price bar. Date format varies by endpoint
// ("2006-01-02 15:04:05" intraday, "2006-01-02" daily).
type Bar struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Article is one news row.
type Article struct {
	Symbol        string `json:"symbol"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	URL           string `json:"url"`
	Site          string `json:"site"`
	PublishedDate string `json:"publishedDate"`
}

// GetQuote fetches the spot quote for one symbol. The endpoint answers with
// a one-element array; an empty array means the symbol is unknown upstream.
func (c *Client) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	path := "/quote/" + url.PathEscape(symbol)

	body, err := c.doGet(ctx, path, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("fmp: get quote %s: %w", symbol, err)
	}

	var quotes []Quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return Quote{}, fmt.Errorf("fmp: decode quote %s: %w", symbol, err)
	}
	if len(quotes) == 0 {
		return Quote{}, fmt.Errorf("fmp: quote %s: %w", symbol, domain.ErrNotFound)
	}
	return quotes[0], nil
}

// Ratios is one row of the trailing-twelve-month ratios endpoint. The
// upstream misspells dividendYielTTM; the tag matches the wire.
type Ratios struct {
	PERatio       float64 `json:"peRatioTTM"`
	PriceToSales  float64 `json:"priceToSalesRatioTTM"`
	DebtToEquity  float64 `json:"debtEquityRatioTTM"`
	DividendYield float64 `json:"dividendYielTTM"`
}

// GetRatios fetches TTM valuation ratios for one symbol. An empty array
// means the symbol has no reported financials.
func (c *Client) GetRatios(ctx context.Context, symbol string) ([]Ratios, error) {
	path := "/ratios-ttm/" + url.PathEscape(symbol)

	body, err := c.doGet(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fmp: get ratios %s: %w", symbol, err)
	}

	var ratios []Ratios
	if err := json.Unmarshal(body, &ratios); err != nil {
		return nil, fmt.Errorf("fmp: decode ratios %s: %w", symbol, err)
	}
	return ratios, nil
}

// GetCryptoQuotes fetches the full crypto quote table. Used to re-match by
// exact formatted symbol when a ticker collides across asset classes.
func (c *Client) GetCryptoQuotes(ctx context.Context) ([]Quote, error) {
	body, err := c.doGet(ctx, "/quotes/crypto", nil)
	if err != nil {
		return nil, fmt.Errorf("fmp: get crypto quotes: %w", err)
	}

	var quotes []Quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("fmp: decode crypto quotes: %w", err)
	}
	return quotes, nil
}

// GetIntradayBars fetches intraday bars at the given interval
// ("4hour", "1hour") for a symbol, newest first as FMP serves them.
func (c *Client) GetIntradayBars(ctx context.Context, interval, symbol string) ([]Bar, error) {
	path := "/historical-chart/" + url.PathEscape(interval) + "/" + url.PathEscape(symbol)

	body, err := c.doGet(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fmp: get %s bars %s: %w", interval, symbol, err)
	}

	var bars []Bar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, fmt.Errorf("fmp: decode %s bars %s: %w", interval, symbol, err)
	}
	return bars, nil
}

// historicalEnvelope wraps the daily series endpoint's response.
type historicalEnvelope struct {
	Symbol     string `json:"symbol"`
	Historical []Bar  `json:"historical"`
}

// GetDailyBars fetches up to days daily EOD bars for a symbol, newest first.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, days int) ([]Bar, error) {
	params := url.Values{}
	if days > 0 {
		params.Set("timeseries", strconv.Itoa(days))
	}
	path := "/historical-price-full/" + url.PathEscape(symbol)

	body, err := c.doGet(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("fmp: get daily bars %s: %w", symbol, err)
	}

	var env historicalEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("fmp: decode daily bars %s: %w", symbol, err)
	}
	return env.Historical, nil
}

// GetStockNews fetches recent headlines for the given tickers.
func (c *Client) GetStockNews(ctx context.Context, symbol string, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("tickers", symbol)
	params.Set("limit", strconv.Itoa(limit))

	return c.getNews(ctx, "/stock_news", params, symbol)
}

// GetCryptoNews fetches recent crypto headlines for a symbol.
func (c *Client) GetCryptoNews(ctx context.Context, symbol string, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(limit))

	return c.getNews(ctx, "/crypto_news", params, symbol)
}

// GetForexNews fetches recent FX headlines for a pair.
func (c *Client) GetForexNews(ctx context.Context, symbol string, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(limit))

	return c.getNews(ctx, "/forex_news", params, symbol)
}

// GetGeneralNews fetches cross-asset headlines; the last-resort news tier.
func (c *Client) GetGeneralNews(ctx context.Context, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	return c.getNews(ctx, "/general_news", params, "")
}

func (c *Client) getNews(ctx context.Context, path string, params url.Values, symbol string) ([]Article, error) {
	body, err := c.doGet(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("fmp: get news %s %s: %w", path, symbol, err)
	}

	var articles []Article
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, fmt.Errorf("fmp: decode news %s %s: %w", path, symbol, err)
	}
	return articles, nil
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
