package resolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/domain"
	"github.com/chartpulse/chartpulse/internal/platform/dexscreener"
	"github.com/chartpulse/chartpulse/internal/platform/llm"
	"github.com/chartpulse/chartpulse/internal/symbols"
)

type fakePairSearcher struct {
	pairs   map[string][]dexscreener.Pair
	queries []string
}

func (f *fakePairSearcher) SearchPairs(_ context.Context, query string) ([]dexscreener.Pair, error) {
	f.queries = append(f.queries, query)
	if f.pairs == nil {
		return nil, nil
	}
	return f.pairs[query], nil
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ []llm.Message) (string, error) {
	f.calls++
	return f.reply, f.err
}

func makePair(chain, address, symbol, name, price string, liquidity, volume float64) dexscreener.Pair {
	var p dexscreener.Pair
	p.ChainID = chain
	p.PairAddress = "pair-" + symbol
	p.BaseToken.Address = address
	p.BaseToken.Symbol = symbol
	p.BaseToken.Name = name
	p.PriceUSD = price
	p.Liquidity.USD = liquidity
	p.Volume.H24 = volume
	return p
}

func newTestResolver(pairs PairSearcher, completer Completer) *Resolver {
	return NewResolver(symbols.NewCatalog(), pairs, completer, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolveCatalogHit(t *testing.T) {
	searcher := &fakePairSearcher{}
	completer := &fakeCompleter{err: errors.New("should not be called")}
	r := newTestResolver(searcher, completer)

	asset, err := r.Resolve(context.Background(), "how is apple doing?")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", asset.DisplaySymbol)
	assert.Equal(t, domain.ResolvedByCatalog, asset.Source)
	assert.Empty(t, searcher.queries, "catalog hit must short-circuit the pair search")
	assert.Zero(t, completer.calls)
}

func TestResolveContractAddress(t *testing.T) {
	const addr = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	searcher := &fakePairSearcher{
		pairs: map[string][]dexscreener.Pair{
			addr: {
				makePair("ethereum", addr, "DAI", "Dai Stablecoin", "1.0002", 5_000_000, 800_000),
				makePair("ethereum", addr, "DAI", "Dai Stablecoin", "0.9990", 40_000, 2_000),
			},
		},
	}
	r := newTestResolver(searcher, &fakeCompleter{})

	asset, err := r.Resolve(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, "DAI", asset.DisplaySymbol)
	assert.Equal(t, domain.ClassOnchainToken, asset.Class)
	assert.Equal(t, domain.ResolvedByAddress, asset.Source)
	assert.Equal(t, addr, asset.Onchain.ContractAddress)
	assert.InDelta(t, 1.0002, asset.Price, 1e-9, "deepest pool wins")
}

func TestResolveAddressDeadEnd(t *testing.T) {
	const addr = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	searcher := &fakePairSearcher{}
	completer := &fakeCompleter{reply: `{"symbol": "DAI", "name": "Dai", "type": "crypto"}`}
	r := newTestResolver(searcher, completer)

	_, err := r.Resolve(context.Background(), addr)
	require.ErrorIs(t, err, domain.ErrResolution)
	assert.Zero(t, completer.calls, "an unresolvable address must not reach the LLM")
}

func TestResolveFuzzyOnchainSymbol(t *testing.T) {
	searcher := &fakePairSearcher{
		pairs: map[string][]dexscreener.Pair{
			"WIF": {
				makePair("solana", "mint-wif", "WIF", "dogwifhat", "2.41", 900_000, 400_000),
				makePair("solana", "mint-other", "WIFETH", "not it", "0.01", 9_000_000, 0),
			},
		},
	}
	r := newTestResolver(searcher, &fakeCompleter{})

	asset, err := r.Resolve(context.Background(), "WIF")
	require.NoError(t, err)
	assert.Equal(t, "WIF", asset.DisplaySymbol)
	assert.Equal(t, domain.ResolvedByPairScan, asset.Source)
	assert.Equal(t, "solana", asset.Onchain.Chain)
}

func TestResolveLLMFallback(t *testing.T) {
	searcher := &fakePairSearcher{}
	completer := &fakeCompleter{reply: `{"symbol": "PLTR", "name": "Palantir Technologies", "type": "stock"}`}
	r := newTestResolver(searcher, completer)

	asset, err := r.Resolve(context.Background(), "that data company the government uses")
	require.NoError(t, err)
	assert.Equal(t, "PLTR", asset.DisplaySymbol)
	assert.Equal(t, domain.ClassStock, asset.Class)
	assert.Equal(t, domain.ResolvedByLLM, asset.Source)
}

func TestResolveLLMCryptoQuerySymbol(t *testing.T) {
	completer := &fakeCompleter{reply: `{"symbol": "ADA", "name": "Cardano", "type": "crypto"}`}
	r := newTestResolver(&fakePairSearcher{}, completer)

	asset, err := r.Resolve(context.Background(), "the ouroboros proof of stake chain")
	require.NoError(t, err)
	assert.Equal(t, "ADAUSD", asset.QuerySymbol)
}

func TestResolveAllTiersFail(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model down")}
	r := newTestResolver(&fakePairSearcher{}, completer)

	_, err := r.Resolve(context.Background(), "complete gibberish zxqj")
	require.ErrorIs(t, err, domain.ErrResolution)
}

func TestResolveEmptyQuery(t *testing.T) {
	r := newTestResolver(&fakePairSearcher{}, &fakeCompleter{})

	_, err := r.Resolve(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrResolution)
}

type fakeEnricher struct {
	quote domain.PriceQuote
	err   error
}

func (f *fakeEnricher) GetQuote(_ context.Context, _ *domain.Asset) (domain.PriceQuote, error) {
	return f.quote, f.err
}

func TestResolveEnrichment(t *testing.T) {
	r := newTestResolver(&fakePairSearcher{}, &fakeCompleter{})
	r.SetEnricher(&fakeEnricher{quote: domain.PriceQuote{Value: 231.5, ChangePct: 1.2}})

	asset, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 231.5, asset.Price)
	assert.Equal(t, 1.2, asset.ChangePct)
}

func TestResolveEnrichmentFailureDegrades(t *testing.T) {
	r := newTestResolver(&fakePairSearcher{}, &fakeCompleter{})
	r.SetEnricher(&fakeEnricher{err: errors.New("upstream down")})

	asset, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Zero(t, asset.Price, "failed enrichment leaves the asset priceless")
}

func TestResolveOnChainPrefersPairSearch(t *testing.T) {
	searcher := &fakePairSearcher{
		pairs: map[string][]dexscreener.Pair{
			"PEPE": {
				makePair("ethereum", "0xpepe", "PEPE", "Pepe", "0.000012", 3_000_000, 500_000),
			},
		},
	}
	r := newTestResolver(searcher, &fakeCompleter{err: errors.New("should not be called")})

	asset, err := r.ResolveOnChain(context.Background(), "PEPE")
	require.NoError(t, err)
	assert.Equal(t, "PEPE", asset.DisplaySymbol)
	assert.Equal(t, domain.ClassOnchainToken, asset.Class)
	assert.Equal(t, domain.ResolvedByPairScan, asset.Source)
	assert.Equal(t, []string{"PEPE"}, searcher.queries)
}

func TestResolveOnChainFallsBackOnMiss(t *testing.T) {
	r := newTestResolver(&fakePairSearcher{}, &fakeCompleter{})

	asset, err := r.ResolveOnChain(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", asset.DisplaySymbol)
	assert.Equal(t, domain.ResolvedByCatalog, asset.Source)
}
