// Package domain defines the core types shared across the chartpulse
// services: assets, quotes, series, news, subscriptions, and the store
// interfaces they are persisted through.
package domain

// AssetClass is the instrument category. Together with QuerySymbol it
// determines which upstream endpoint family applies.
type AssetClass string

const (
	ClassStock        AssetClass = "stock"
	ClassCrypto       AssetClass = "crypto"
	ClassForex        AssetClass = "forex"
	ClassCommodity    AssetClass = "commodity"
	ClassIndex        AssetClass = "index"
	ClassOnchainToken AssetClass = "onchain-token"
)

// ResolutionSource records which resolver tier produced an asset.
type ResolutionSource string

const (
	ResolvedByCatalog  ResolutionSource = "catalog"
	ResolvedByAddress  ResolutionSource = "onchain-address"
	ResolvedByPairScan ResolutionSource = "onchain-fuzzy"
	ResolvedByLLM      ResolutionSource = "llm"
	ResolvedByDefault  ResolutionSource = "default"
)

// OnchainMeta holds pair metadata for assets resolved through a DEX pair
// search. Zero value means the asset is not an on-chain token.
type OnchainMeta struct {
	ContractAddress string  `json:"contract_address,omitempty"`
	Chain           string  `json:"chain,omitempty"`
	PairAddress     string  `json:"pair_address,omitempty"`
	LiquidityUSD    float64 `json:"liquidity_usd,omitempty"`
}

// Asset is the canonical identity of a tradable instrument. It is constructed
// fresh per request by the resolver and never persisted. Identity fields are
// immutable after construction; only price enrichment fields are filled in
// later by the market data fetcher.
type Asset struct {
	ID            string           `json:"id"`
	DisplaySymbol string           `json:"symbol"`
	QuerySymbol   string           `json:"query_symbol"`
	Name          string           `json:"name"`
	Class         AssetClass       `json:"class"`
	Source        ResolutionSource `json:"resolution_source"`
	Onchain       OnchainMeta      `json:"onchain,omitempty"`

	// Enrichment, best effort. Zero when live lookup failed during
	// resolution; the asset is still valid without it.
	Price     float64 `json:"price,omitempty"`
	ChangePct float64 `json:"change_pct,omitempty"`
}

// DefaultAsset is returned when resolution exhausts every tier. The product
// rule is "always show a chart", so callers substitute this instead of
// failing the request.
func DefaultAsset() *Asset {
	return &Asset{
		ID:            "BTC",
		DisplaySymbol: "BTC",
		QuerySymbol:   "BTCUSD",
		Name:          "Bitcoin",
		Class:         ClassCrypto,
		Source:        ResolvedByDefault,
	}
}
