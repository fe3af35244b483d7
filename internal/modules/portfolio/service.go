// Package portfolio orchestrates the ledger store, the price table, and the
// valuation model into the caller-facing portfolio operations.
package portfolio

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/avakros/stockfolio/internal/domain"
	"github.com/avakros/stockfolio/internal/modules/ledger"
	"github.com/avakros/stockfolio/internal/modules/pricing"
	"github.com/avakros/stockfolio/internal/modules/valuation"
)

// topMoversShown is how many movers the overview reports
const topMoversShown = 3

// Overview bundles the derived analytics for one portfolio view
type Overview struct {
	Metrics     valuation.Metrics      `json:"metrics"`
	Allocations []valuation.Allocation `json:"allocations"`
	TopMovers   []valuation.Mover      `json:"top_movers"`
}

// Service exposes portfolio operations over the ledger store and price table
type Service struct {
	ledger *ledger.Repository
	prices *pricing.Table
	log    zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(ledgerRepo *ledger.Repository, prices *pricing.Table, log zerolog.Logger) *Service {
	return &Service{
		ledger: ledgerRepo,
		prices: prices,
		log:    log.With().Str("component", "portfolio").Logger(),
	}
}

// Positions returns the current positions, symbol-sorted. Held symbols
// absent from the price table are dropped.
func (s *Service) Positions() ([]valuation.Position, error) {
	holdings, err := s.ledger.LoadHoldings()
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	positions := make([]valuation.Position, 0, len(symbols))
	for _, symbol := range symbols {
		price, ok := s.prices.Price(symbol)
		if !ok {
			continue
		}
		positions = append(positions, valuation.Position{
			Symbol:   symbol,
			Quantity: holdings[symbol],
			Price:    price,
		})
	}
	return positions, nil
}

// Overview computes metrics, allocation percentages, and the top movers
// against the previous snapshot.
func (s *Service) Overview() (*Overview, error) {
	positions, err := s.Positions()
	if err != nil {
		return nil, err
	}

	previous, err := s.ledger.PreviousSnapshotValues()
	if err != nil {
		return nil, err
	}

	return &Overview{
		Metrics:     valuation.PortfolioMetrics(positions),
		Allocations: valuation.AllocationPercentages(positions),
		TopMovers:   valuation.TopMovers(positions, previous, topMoversShown),
	}, nil
}

// AddHolding increases the held quantity of a symbol at its table price
func (s *Service) AddHolding(symbol string, quantity int64) error {
	price, err := s.tablePrice(symbol)
	if err != nil {
		return err
	}
	return s.ledger.AddHolding(symbol, quantity, price)
}

// SetHolding overwrites the held quantity of a symbol at its table price
func (s *Service) SetHolding(symbol string, quantity int64) error {
	price, err := s.tablePrice(symbol)
	if err != nil {
		return err
	}
	return s.ledger.SetHolding(symbol, quantity, price)
}

// RemoveHolding deletes a symbol's holding; no-op if absent
func (s *Service) RemoveHolding(symbol string) error {
	return s.ledger.RemoveHolding(symbol)
}

// ClearHoldings deletes all holdings
func (s *Service) ClearHoldings() error {
	return s.ledger.ClearHoldings()
}

// TakeSnapshot captures the current positions for later movement comparison
func (s *Service) TakeSnapshot() (int64, error) {
	return s.ledger.RecordSnapshot(s.prices.Map())
}

// PriceTable returns the injected price table
func (s *Service) PriceTable() *pricing.Table {
	return s.prices
}

// tablePrice looks a symbol up in the price table, rejecting unknown symbols
// before any store write
func (s *Service) tablePrice(symbol string) (float64, error) {
	price, ok := s.prices.Price(symbol)
	if !ok {
		return 0, domain.Validationf("symbol %q is not in the price table", domain.NormalizeSymbol(symbol))
	}
	return price, nil
}
