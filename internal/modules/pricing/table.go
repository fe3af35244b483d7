// Package pricing provides the fixed symbol-to-price lookup table.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/avakros/stockfolio/internal/domain"
)

// Table maps canonical symbols to their fixed prices. The table is injected
// configuration: prices never change at runtime.
type Table struct {
	prices map[string]float64
}

// Default returns the built-in price table
func Default() *Table {
	return New(map[string]float64{
		"Apple":     180,
		"Tesla":     250,
		"Google":    2800,
		"Microsoft": 320,
		"Amazon":    3500,
	})
}

// New builds a table from raw prices. Keys are normalized to canonical
// symbols; entries with non-positive prices are dropped.
func New(prices map[string]float64) *Table {
	normalized := make(map[string]float64, len(prices))
	for symbol, price := range prices {
		if price <= 0 {
			continue
		}
		normalized[domain.NormalizeSymbol(symbol)] = price
	}
	return &Table{prices: normalized}
}

// Load reads a price table from a JSON file of the form {"Apple": 180, ...}.
// An empty path returns the built-in default table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price table %s: %w", path, err)
	}

	var prices map[string]float64
	if err := json.Unmarshal(data, &prices); err != nil {
		return nil, fmt.Errorf("failed to parse price table %s: %w", path, err)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("price table %s contains no entries", path)
	}

	return New(prices), nil
}

// Price returns the price for a symbol (normalized before lookup)
func (t *Table) Price(symbol string) (float64, bool) {
	price, ok := t.prices[domain.NormalizeSymbol(symbol)]
	return price, ok
}

// Contains reports whether a symbol is in the table
func (t *Table) Contains(symbol string) bool {
	_, ok := t.Price(symbol)
	return ok
}

// Symbols returns all canonical symbols, sorted
func (t *Table) Symbols() []string {
	symbols := make([]string, 0, len(t.prices))
	for symbol := range t.prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Map returns a copy of the underlying price mapping
func (t *Table) Map() map[string]float64 {
	prices := make(map[string]float64, len(t.prices))
	for symbol, price := range t.prices {
		prices[symbol] = price
	}
	return prices
}
