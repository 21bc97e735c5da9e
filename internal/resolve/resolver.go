// Package resolve maps free-text queries and symbols to canonical assets
// through layered matching: curated catalog, on-chain pair search, then an
// LLM fallback.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/platform/dexscreener"
	"github.com/chartpulse/chartpulse/internal/platform/llm"
	"github.com/chartpulse/chartpulse/internal/symbols"
)

// PairSearcher is the on-chain pair search dependency.
type PairSearcher interface {
	SearchPairs(ctx context.Context, query string) ([]dexscreener.Pair, error)
}

// Completer is the LLM fallback dependency.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// QuoteEnricher fills a freshly resolved asset with a live price. Optional:
// a nil enricher or a failed enrichment degrades, never fails resolution.
type QuoteEnricher interface {
	GetQuote(ctx context.Context, asset *domain.Asset) (domain.PriceQuote, error)
}

// Resolver runs the tiered asset resolution.
type Resolver struct {
	catalog  *symbols.Catalog
	pairs    PairSearcher
	llm      Completer
	enricher QuoteEnricher
	logger   *slog.Logger
}

// NewResolver creates a Resolver. enricher may be nil.
func NewResolver(catalog *symbols.Catalog, pairs PairSearcher, completer Completer, enricher QuoteEnricher, logger *slog.Logger) *Resolver {
	return &Resolver{
		catalog:  catalog,
		pairs:    pairs,
		llm:      completer,
		enricher: enricher,
		logger:   logger.With(slog.String("component", "resolve")),
	}
}

// SetEnricher installs the quote enricher after construction. The market
// data fetcher needs a resolver-produced asset class to pick endpoints, so
// the two are wired in this order.
func (r *Resolver) SetEnricher(e QuoteEnricher) { r.enricher = e }

// Resolve determines the canonical asset for a query. Tiers are tried in
// order and short-circuit on the first hit; an address-shaped query is
// never matched against the curated lists. All tiers failing returns
// domain.ErrResolution — the caller substitutes a default asset rather
// than surfacing an error.
func (r *Resolver) Resolve(ctx context.Context, query string) (*domain.Asset, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("resolve %q: %w", query, domain.ErrResolution)
	}

	addressShaped := IsContractAddress(query)

	// Tier 1: curated catalog. Skipped for address-shaped queries so a
	// base58 string can never false-match a ticker.
	if !addressShaped {
		if entry, ok := r.catalog.Scan(query); ok {
			return r.enrich(ctx, entry.Asset()), nil
		}
	}

	// Tier 2: contract-address pair search.
	if addressShaped {
		if asset := r.fromPairSearch(ctx, query, ""); asset != nil {
			asset.Source = domain.ResolvedByAddress
			return r.enrich(ctx, asset), nil
		}
		// An address that resolves nowhere is a dead end; the curated and
		// LLM tiers cannot say anything useful about a raw address.
		return nil, fmt.Errorf("resolve address %q: %w", query, domain.ErrResolution)
	}

	// Tier 3: fuzzy on-chain fallback for memecoin symbols. Only an exact
	// base-token symbol match is accepted.
	if token := singleToken(query); token != "" {
		if asset := r.fromPairSearch(ctx, token, token); asset != nil {
			asset.Source = domain.ResolvedByPairScan
			return r.enrich(ctx, asset), nil
		}
	}

	// Tier 4: LLM fallback.
	if asset := r.fromLLM(ctx, query); asset != nil {
		return r.enrich(ctx, asset), nil
	}

	return nil, fmt.Errorf("resolve %q: %w", query, domain.ErrResolution)
}

// ResolveOnChain resolves the query directly against the pair search, for
// callers that already know the instrument trades on-chain. A miss falls
// back to the regular tier chain, so a mistaken hint still resolves.
func (r *Resolver) ResolveOnChain(ctx context.Context, query string) (*domain.Asset, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("resolve %q: %w", query, domain.ErrResolution)
	}

	if asset := r.fromPairSearch(ctx, query, ""); asset != nil {
		if IsContractAddress(query) {
			asset.Source = domain.ResolvedByAddress
		} else {
			asset.Source = domain.ResolvedByPairScan
		}
		return r.enrich(ctx, asset), nil
	}
	return r.Resolve(ctx, query)
}

// fromPairSearch queries the pair search and converts the best pair into an
// on-chain token asset. When requireSymbol is non-empty, only a pair whose
// base token symbol matches it exactly (case-insensitive) is accepted.
func (r *Resolver) fromPairSearch(ctx context.Context, query, requireSymbol string) *domain.Asset {
	pairs, err := r.pairs.SearchPairs(ctx, query)
	if err != nil {
		r.logger.WarnContext(ctx, "pair search failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if requireSymbol != "" {
		filtered := pairs[:0:0]
		for _, p := range pairs {
			if strings.EqualFold(p.BaseToken.Symbol, requireSymbol) {
				filtered = append(filtered, p)
			}
		}
		pairs = filtered
	}

	best, ok := dexscreener.BestPair(pairs)
	if !ok {
		return nil
	}

	symbol := strings.ToUpper(best.BaseToken.Symbol)
	return &domain.Asset{
		ID:            best.BaseToken.Address,
		DisplaySymbol: symbol,
		QuerySymbol:   best.PairAddress,
		Name:          best.BaseToken.Name,
		Class:         domain.ClassOnchainToken,
		Onchain: domain.OnchainMeta{
			ContractAddress: best.BaseToken.Address,
			Chain:           best.ChainID,
			PairAddress:     best.PairAddress,
			LiquidityUSD:    best.Liquidity.USD,
		},
		Price:     best.Price(),
		ChangePct: best.PriceChange.H24,
	}
}

const resolvePrompt = `You identify tradable financial instruments. Given a user query, reply with ONLY a JSON object {"symbol": "...", "name": "...", "type": "stock|crypto|forex|commodity|index"}. If no instrument can be identified, use "unknown" as the symbol. No other text.`

// fromLLM asks the hosted model to identify the instrument. Any parse
// failure is a miss, not an error.
func (r *Resolver) fromLLM(ctx context.Context, query string) *domain.Asset {
	if r.llm == nil {
		return nil
	}

	reply, err := r.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: resolvePrompt},
		{Role: "user", Content: query},
	})
	if err != nil {
		r.logger.WarnContext(ctx, "llm resolution failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil
	}

	parsed, ok := ParseAssetJSON(reply)
	if !ok {
		return nil
	}

	class := classFromType(parsed.Type)
	return &domain.Asset{
		ID:            parsed.Symbol,
		DisplaySymbol: parsed.Symbol,
		QuerySymbol:   querySymbolFor(parsed.Symbol, class),
		Name:          parsed.Name,
		Class:         class,
		Source:        domain.ResolvedByLLM,
	}
}

// enrich attaches a live price when the enricher is available; a failed
// lookup leaves the asset priceless rather than failing the resolution.
func (r *Resolver) enrich(ctx context.Context, asset *domain.Asset) *domain.Asset {
	if r.enricher == nil || asset.Price != 0 {
		return asset
	}
	quote, err := r.enricher.GetQuote(ctx, asset)
	if err != nil {
		r.logger.DebugContext(ctx, "price enrichment failed",
			slog.String("symbol", asset.DisplaySymbol),
			slog.String("error", err.Error()),
		)
		return asset
	}
	asset.Price = quote.Value
	asset.ChangePct = quote.ChangePct
	return asset
}

func classFromType(t string) domain.AssetClass {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "crypto", "cryptocurrency":
		return domain.ClassCrypto
	case "forex", "currency":
		return domain.ClassForex
	case "commodity":
		return domain.ClassCommodity
	case "index":
		return domain.ClassIndex
	default:
		return domain.ClassStock
	}
}

func querySymbolFor(symbol string, class domain.AssetClass) string {
	switch class {
	case domain.ClassCrypto:
		if !strings.HasSuffix(symbol, "USD") {
			return symbol + "USD"
		}
	}
	return symbol
}

// singleToken returns the query if it is one bare word usable as a symbol
// lookup, "" otherwise.
func singleToken(query string) string {
	fields := strings.Fields(query)
	if len(fields) != 1 {
		return ""
	}
	tok := fields[0]
	if len(tok) < 2 || len(tok) > 12 {
		return ""
	}
	return tok
}
