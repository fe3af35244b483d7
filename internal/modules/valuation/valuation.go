// Package valuation computes derived portfolio metrics from positions.
// Everything here is a pure function: no I/O, no state. Callers pass
// symbol-sorted positions so that ties and rankings are deterministic.
package valuation

import (
	"math"
	"sort"

	"github.com/Rhymond/go-money"
)

// EmptyTopSymbol is the sentinel top symbol reported for an empty portfolio
const EmptyTopSymbol = "-"

// Position is a holding joined with its price
type Position struct {
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// Value returns quantity x price
func (p Position) Value() float64 {
	return float64(p.Quantity) * p.Price
}

// Metrics summarizes a portfolio: total value, position count, and the
// largest position by value
type Metrics struct {
	TotalValue float64 `json:"total_value"`
	Positions  int     `json:"positions"`
	TopSymbol  string  `json:"top_symbol"`
	TopValue   float64 `json:"top_value"`
}

// Allocation is one position's share of the total value
type Allocation struct {
	Symbol  string  `json:"symbol"`
	Percent float64 `json:"percent"`
}

// Mover is a currently-held position ranked by value change since the
// previous snapshot
type Mover struct {
	Symbol string  `json:"symbol"`
	Delta  float64 `json:"delta"`
}

// TotalValue sums position values, 0 for an empty portfolio
func TotalValue(positions []Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.Value()
	}
	return total
}

// PortfolioMetrics computes summary metrics. It is total over any input:
// an empty portfolio yields the "-" sentinel with all numeric fields zero.
func PortfolioMetrics(positions []Position) Metrics {
	metrics := Metrics{TopSymbol: EmptyTopSymbol}
	if len(positions) == 0 {
		return metrics
	}

	for _, p := range positions {
		value := p.Value()
		metrics.TotalValue += value
		if value > metrics.TopValue || metrics.TopSymbol == EmptyTopSymbol {
			metrics.TopSymbol = p.Symbol
			metrics.TopValue = value
		}
	}
	metrics.Positions = len(positions)
	return metrics
}

// AllocationPercentages returns each position's percentage of the total
// value, in input order. Empty when the total is not positive, which also
// avoids dividing by zero.
func AllocationPercentages(positions []Position) []Allocation {
	allocations := []Allocation{}
	total := TotalValue(positions)
	if total <= 0 {
		return allocations
	}

	for _, p := range positions {
		allocations = append(allocations, Allocation{
			Symbol:  p.Symbol,
			Percent: 100 * p.Value() / total,
		})
	}
	return allocations
}

// TopMovers ranks currently-held positions by absolute value change against
// the previous snapshot's values, largest first, at most topN entries.
// Symbols present only in previous (since-removed holdings) are deliberately
// excluded: a fully liquidated position never appears as a mover. Ties keep
// input order, so symbol-sorted input gives deterministic results.
func TopMovers(positions []Position, previous map[string]float64, topN int) []Mover {
	movers := []Mover{}
	if topN <= 0 {
		return movers
	}

	for _, p := range positions {
		movers = append(movers, Mover{
			Symbol: p.Symbol,
			Delta:  p.Value() - previous[p.Symbol],
		})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(movers[i].Delta) > math.Abs(movers[j].Delta)
	})

	if len(movers) > topN {
		movers = movers[:topN]
	}
	return movers
}

// FormatCurrency renders a value as a dollar amount with thousands
// separators and two decimal places, e.g. 1234.5 -> "$1,234.50"
func FormatCurrency(value float64) string {
	return money.New(int64(math.Round(value*100)), money.USD).Display()
}
