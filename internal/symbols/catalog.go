// Package symbols provides the curated instrument catalog used by tier-1
// asset resolution. The catalog is built once at startup and is immutable
// afterwards, so it can be shared across requests without locking.
package symbols

import (
	"strings"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// Entry is one curated instrument.
type Entry struct {
	Symbol      string
	QuerySymbol string
	Name        string
	Class       domain.AssetClass
}

// Catalog is an immutable snapshot of the curated symbol lists plus the
// alias normalization table. Lookups are case-insensitive exact matches.
type Catalog struct {
	bySymbol map[string]Entry
	byName   map[string]Entry
	aliases  map[string]string // normalized alias -> canonical symbol
}

// NewCatalog builds the default catalog from the built-in lists.
func NewCatalog() *Catalog {
	c := &Catalog{
		bySymbol: make(map[string]Entry, 256),
		byName:   make(map[string]Entry, 256),
		aliases:  make(map[string]string, 64),
	}
	for _, e := range curated {
		c.bySymbol[strings.ToUpper(e.Symbol)] = e
		c.byName[strings.ToLower(e.Name)] = e
	}
	for alias, sym := range aliasTable {
		c.aliases[strings.ToLower(alias)] = sym
	}
	return c
}

// LookupSymbol returns the curated entry for a ticker, case-insensitive.
func (c *Catalog) LookupSymbol(sym string) (Entry, bool) {
	e, ok := c.bySymbol[strings.ToUpper(strings.TrimSpace(sym))]
	return e, ok
}

// LookupAlias resolves a common-language alias ("bitcoin", "apple") to its
// curated entry.
func (c *Catalog) LookupAlias(word string) (Entry, bool) {
	sym, ok := c.aliases[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return Entry{}, false
	}
	return c.LookupSymbol(sym)
}

// LookupName resolves a full instrument name to its curated entry.
func (c *Catalog) LookupName(name string) (Entry, bool) {
	e, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// Scan walks the free-text query token by token and returns the first
// curated hit: alias matches first (most specific), then tickers, then full
// names against the whole query. Curated membership deliberately outranks
// generic ticker-shaped pattern matches.
func (c *Catalog) Scan(query string) (Entry, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Entry{}, false
	}

	tokens := strings.FieldsFunc(q, func(r rune) bool {
		return r == ' ' || r == ',' || r == '?' || r == '!' || r == '.' || r == '\t' || r == '\n'
	})

	for _, tok := range tokens {
		if e, ok := c.LookupAlias(tok); ok {
			return e, true
		}
	}
	for _, tok := range tokens {
		if e, ok := c.LookupSymbol(tok); ok {
			return e, true
		}
	}
	if e, ok := c.byName[strings.ToLower(q)]; ok {
		return e, true
	}
	return Entry{}, false
}

// Asset converts a catalog entry into a resolved asset.
func (e Entry) Asset() *domain.Asset {
	return &domain.Asset{
		ID:            e.Symbol,
		DisplaySymbol: e.Symbol,
		QuerySymbol:   e.QuerySymbol,
		Name:          e.Name,
		Class:         e.Class,
		Source:        domain.ResolvedByCatalog,
	}
}
