package portfolio

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/avakros/stockfolio/internal/domain"
	"github.com/avakros/stockfolio/internal/modules/ledger"
	"github.com/avakros/stockfolio/internal/modules/reports"
	"github.com/avakros/stockfolio/internal/modules/valuation"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *Service
	ledger  *ledger.Repository
	exports *reports.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *Service, ledgerRepo *ledger.Repository, exports *reports.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		ledger:  ledgerRepo,
		exports: exports,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// RegisterRoutes mounts the portfolio routes on the given router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio", h.HandleGetPortfolio)
	r.Get("/portfolio/overview", h.HandleGetOverview)
	r.Post("/holdings", h.HandleUpsertHolding)
	r.Delete("/holdings/{symbol}", h.HandleRemoveHolding)
	r.Delete("/holdings", h.HandleClearHoldings)
	r.Post("/snapshots", h.HandleTakeSnapshot)
	r.Get("/prices", h.HandleGetPrices)
	r.Get("/transactions", h.HandleGetTransactions)
	r.Post("/exports/{format}", h.HandleExport)
	r.Get("/exports", h.HandleGetExports)
}

// positionView adds the derived value and display formatting to a position
type positionView struct {
	Symbol    string  `json:"symbol"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted_value"`
}

// HandleGetPortfolio returns current positions with values, symbol-sorted
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.Positions()
	if err != nil {
		h.writeOpError(w, err)
		return
	}

	views := make([]positionView, 0, len(positions))
	for _, p := range positions {
		views = append(views, positionView{
			Symbol:    p.Symbol,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Value:     p.Value(),
			Formatted: valuation.FormatCurrency(p.Value()),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"positions":   views,
		"total_value": valuation.TotalValue(positions),
	})
}

// HandleGetOverview returns metrics, allocations and top movers
func (h *Handler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview()
	if err != nil {
		h.writeOpError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

// upsertRequest is the body for POST /holdings
type upsertRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	Mode     string `json:"mode"` // "add" (default) or "set"
}

// HandleUpsertHolding adds to or sets a holding's quantity
func (h *Handler) HandleUpsertHolding(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var err error
	switch req.Mode {
	case "", "add":
		err = h.service.AddHolding(req.Symbol, req.Quantity)
	case "set":
		err = h.service.SetHolding(req.Symbol, req.Quantity)
	default:
		h.writeError(w, http.StatusBadRequest, "mode must be add or set")
		return
	}
	if err != nil {
		h.writeOpError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"symbol": domain.NormalizeSymbol(req.Symbol),
	})
}

// HandleRemoveHolding removes one holding; removing an absent symbol
// succeeds
func (h *Handler) HandleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := h.service.RemoveHolding(symbol); err != nil {
		h.writeOpError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"symbol": domain.NormalizeSymbol(symbol),
	})
}

// HandleClearHoldings removes all holdings
func (h *Handler) HandleClearHoldings(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHoldings(); err != nil {
		h.writeOpError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleTakeSnapshot records a valuation snapshot
func (h *Handler) HandleTakeSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.TakeSnapshot()
	if err != nil {
		h.writeOpError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]int64{"snapshot_id": id})
}

// HandleGetPrices returns the injected price table
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.PriceTable().Map())
}

// HandleGetTransactions returns the most recent audit rows
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)
	txns, err := h.ledger.RecentTransactions(limit)
	if err != nil {
		h.writeOpError(w, err)
		return
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	h.writeJSON(w, http.StatusOK, txns)
}

// HandleExport generates a report in the requested format and records the
// export event
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format, err := reports.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.writeOpError(w, err)
		return
	}

	positions, err := h.service.Positions()
	if err != nil {
		h.writeOpError(w, err)
		return
	}

	filename, err := h.exports.Export(format, positions, valuation.TotalValue(positions))
	if err != nil {
		h.writeOpError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{
		"format":   string(format),
		"filename": filename,
	})
}

// HandleGetExports returns the export history, newest first
func (h *Handler) HandleGetExports(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20)
	records, err := h.ledger.ExportHistory(limit)
	if err != nil {
		h.writeOpError(w, err)
		return
	}
	if records == nil {
		records = []ledger.ExportRecord{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

// queryLimit parses the limit query parameter with a default
func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// writeOpError maps engine errors onto HTTP statuses: validation failures
// are the caller's fault, everything else is internal.
func (h *Handler) writeOpError(w http.ResponseWriter, err error) {
	if domain.IsValidation(err) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg("Portfolio operation failed")
	h.writeError(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
