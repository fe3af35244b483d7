package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalValue(t *testing.T) {
	assert.Equal(t, 0.0, TotalValue(nil))

	positions := []Position{
		{Symbol: "Apple", Quantity: 10, Price: 180},
		{Symbol: "Tesla", Quantity: 2, Price: 250},
	}
	assert.Equal(t, 2300.0, TotalValue(positions))
}

func TestPortfolioMetrics(t *testing.T) {
	t.Run("picks the largest position", func(t *testing.T) {
		positions := []Position{
			{Symbol: "Apple", Quantity: 10, Price: 180},
			{Symbol: "Google", Quantity: 1, Price: 2800},
		}

		metrics := PortfolioMetrics(positions)

		assert.Equal(t, 4600.0, metrics.TotalValue)
		assert.Equal(t, 2, metrics.Positions)
		assert.Equal(t, "Google", metrics.TopSymbol)
		assert.Equal(t, 2800.0, metrics.TopValue)
	})

	t.Run("empty portfolio yields sentinel", func(t *testing.T) {
		metrics := PortfolioMetrics(nil)

		assert.Equal(t, 0.0, metrics.TotalValue)
		assert.Equal(t, 0, metrics.Positions)
		assert.Equal(t, EmptyTopSymbol, metrics.TopSymbol)
		assert.Equal(t, 0.0, metrics.TopValue)
	})

	t.Run("tie keeps the first position", func(t *testing.T) {
		positions := []Position{
			{Symbol: "Apple", Quantity: 5, Price: 100},
			{Symbol: "Tesla", Quantity: 2, Price: 250},
		}

		metrics := PortfolioMetrics(positions)
		assert.Equal(t, "Apple", metrics.TopSymbol)
	})
}

func TestAllocationPercentages(t *testing.T) {
	t.Run("percentages sum to 100 in input order", func(t *testing.T) {
		positions := []Position{
			{Symbol: "Apple", Quantity: 10, Price: 180},  // 1800
			{Symbol: "Tesla", Quantity: 2, Price: 250},   // 500
		}

		allocations := AllocationPercentages(positions)

		assert.Len(t, allocations, 2)
		assert.Equal(t, "Apple", allocations[0].Symbol)
		assert.InDelta(t, 78.26, allocations[0].Percent, 0.01)
		assert.Equal(t, "Tesla", allocations[1].Symbol)
		assert.InDelta(t, 21.74, allocations[1].Percent, 0.01)
		assert.InDelta(t, 100.0, allocations[0].Percent+allocations[1].Percent, 1e-9)
	})

	t.Run("zero total yields empty non-nil slice", func(t *testing.T) {
		allocations := AllocationPercentages(nil)
		assert.NotNil(t, allocations)
		assert.Empty(t, allocations)
	})
}

func TestTopMovers(t *testing.T) {
	positions := []Position{
		{Symbol: "Apple", Quantity: 10, Price: 180}, // 1800, was 1700 -> +100
		{Symbol: "Tesla", Quantity: 2, Price: 250},  // 500, was 700 -> -200
	}
	previous := map[string]float64{
		"Apple":  1700,
		"Tesla":  700,
		"Google": 2800, // fully liquidated, must not appear
	}

	t.Run("ranks by absolute delta descending", func(t *testing.T) {
		movers := TopMovers(positions, previous, 3)

		assert.Len(t, movers, 2)
		assert.Equal(t, Mover{Symbol: "Tesla", Delta: -200}, movers[0])
		assert.Equal(t, Mover{Symbol: "Apple", Delta: 100}, movers[1])
	})

	t.Run("truncates to topN", func(t *testing.T) {
		movers := TopMovers(positions, previous, 1)

		assert.Len(t, movers, 1)
		assert.Equal(t, "Tesla", movers[0].Symbol)
	})

	t.Run("empty baseline treats every position as new", func(t *testing.T) {
		movers := TopMovers(positions, map[string]float64{}, 3)

		assert.Equal(t, Mover{Symbol: "Apple", Delta: 1800}, movers[0])
		assert.Equal(t, Mover{Symbol: "Tesla", Delta: 500}, movers[1])
	})

	t.Run("non-positive topN yields empty", func(t *testing.T) {
		assert.Empty(t, TopMovers(positions, previous, 0))
	})
}

func TestFormatCurrency(t *testing.T) {
	testCases := []struct {
		value    float64
		expected string
	}{
		{1234.5, "$1,234.50"},
		{0, "$0.00"},
		{1800, "$1,800.00"},
		{1000000, "$1,000,000.00"},
		{0.005, "$0.01"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatCurrency(tc.value))
	}
}
