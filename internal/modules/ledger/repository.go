// Package ledger implements the durable, transactional portfolio store:
// current holdings, the append-only transaction log, valuation snapshots,
// and the export history.
//
// Every mutation executes as a single SQL transaction that pairs the
// holdings change with its audit row, so the two are never observed
// independently. Validation happens before any write; unexpected
// storage-constraint failures are surfaced as domain.IntegrityError and
// never retried.
package ledger

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avakros/stockfolio/internal/domain"
)

// Repository is the only writer of the holdings, transactions, snapshots,
// snapshot_items and exports tables. It assumes a single logical writer;
// atomicity per call is the sole concurrency guarantee.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new ledger repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "ledger").Logger(),
	}
}

// AddHolding increases the held quantity of a symbol by quantity and appends
// an ADD audit row recording the delta applied, not the resulting total.
func (r *Repository) AddHolding(symbol string, quantity int64, price float64) error {
	symbol = domain.NormalizeSymbol(symbol)
	if err := validateMutation(symbol, quantity, price); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := holdingQuantity(tx, symbol)
	if err != nil {
		return fmt.Errorf("failed to read current quantity for %s: %w", symbol, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := upsertHolding(tx, symbol, current+quantity, now); err != nil {
		return r.storageErr("add holding", err)
	}
	if err := appendTransaction(tx, symbol, ActionAdd, quantity, price, now); err != nil {
		return r.storageErr("add holding", err)
	}

	if err := tx.Commit(); err != nil {
		return r.storageErr("add holding", err)
	}

	r.log.Info().
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Int64("new_total", current+quantity).
		Msg("Holding increased")
	return nil
}

// SetHolding overwrites the held quantity of a symbol and appends a SET
// audit row. Setting to zero is not supported; REMOVE is the only path to
// absence.
func (r *Repository) SetHolding(symbol string, quantity int64, price float64) error {
	symbol = domain.NormalizeSymbol(symbol)
	if err := validateMutation(symbol, quantity, price); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if err := upsertHolding(tx, symbol, quantity, now); err != nil {
		return r.storageErr("set holding", err)
	}
	if err := appendTransaction(tx, symbol, ActionSet, quantity, price, now); err != nil {
		return r.storageErr("set holding", err)
	}

	if err := tx.Commit(); err != nil {
		return r.storageErr("set holding", err)
	}

	r.log.Info().Str("symbol", symbol).Int64("quantity", quantity).Msg("Holding set")
	return nil
}

// RemoveHolding deletes a symbol's holding and appends a REMOVE audit row
// recording the deleted quantity. Removing an absent symbol is an idempotent
// no-op, not an error.
func (r *Repository) RemoveHolding(symbol string) error {
	symbol = domain.NormalizeSymbol(symbol)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var quantity int64
	err = tx.QueryRow("SELECT quantity FROM holdings WHERE symbol = ?", symbol).Scan(&quantity)
	if err == sql.ErrNoRows {
		r.log.Debug().Str("symbol", symbol).Msg("Remove on absent symbol, nothing to do")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read holding for %s: %w", symbol, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec("DELETE FROM holdings WHERE symbol = ?", symbol); err != nil {
		return r.storageErr("remove holding", err)
	}
	if err := appendTransaction(tx, symbol, ActionRemove, quantity, 0, now); err != nil {
		return r.storageErr("remove holding", err)
	}

	if err := tx.Commit(); err != nil {
		return r.storageErr("remove holding", err)
	}

	r.log.Info().Str("symbol", symbol).Int64("quantity", quantity).Msg("Holding removed")
	return nil
}

// ClearHoldings deletes all holdings and appends exactly one CLEAR audit row
// regardless of how many holdings existed.
func (r *Repository) ClearHoldings() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec("DELETE FROM holdings")
	if err != nil {
		return r.storageErr("clear holdings", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := appendTransaction(tx, ClearSymbol, ActionClear, 0, 0, now); err != nil {
		return r.storageErr("clear holdings", err)
	}

	if err := tx.Commit(); err != nil {
		return r.storageErr("clear holdings", err)
	}

	deleted, _ := result.RowsAffected()
	r.log.Warn().Int64("holdings_deleted", deleted).Msg("Portfolio cleared")
	return nil
}

// LoadHoldings returns the current quantity per symbol, holdings with
// quantity > 0 only.
func (r *Repository) LoadHoldings() (map[string]int64, error) {
	rows, err := r.db.Query("SELECT symbol, quantity FROM holdings WHERE quantity > 0 ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := make(map[string]int64)
	for rows.Next() {
		var symbol string
		var quantity int64
		if err := rows.Scan(&symbol, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings[domain.NormalizeSymbol(symbol)] = quantity
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// RecordSnapshot captures the current positions against the given price
// table as one snapshot row plus its items, atomically, and returns the new
// snapshot id. Held symbols absent from the price table are dropped from the
// capture.
func (r *Repository) RecordSnapshot(prices map[string]float64) (int64, error) {
	canonical := make(map[string]float64, len(prices))
	for symbol, price := range prices {
		canonical[domain.NormalizeSymbol(symbol)] = price
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.Query("SELECT symbol, quantity FROM holdings WHERE quantity > 0 ORDER BY symbol")
	if err != nil {
		return 0, fmt.Errorf("failed to query holdings for snapshot: %w", err)
	}

	type line struct {
		symbol   string
		quantity int64
		price    float64
		value    float64
	}
	var lines []line
	var total float64
	for rows.Next() {
		var symbol string
		var quantity int64
		if err := rows.Scan(&symbol, &quantity); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan holding for snapshot: %w", err)
		}
		symbol = domain.NormalizeSymbol(symbol)
		price, ok := canonical[symbol]
		if !ok {
			continue
		}
		value := float64(quantity) * price
		lines = append(lines, line{symbol: symbol, quantity: quantity, price: price, value: value})
		total += value
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("error iterating holdings for snapshot: %w", err)
	}
	rows.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	result, err := tx.Exec(
		"INSERT INTO snapshots (created_at, total_value) VALUES (?, ?)", now, total)
	if err != nil {
		return 0, r.storageErr("record snapshot", err)
	}
	snapshotID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot id: %w", err)
	}

	for _, l := range lines {
		_, err := tx.Exec(`
			INSERT INTO snapshot_items (snapshot_id, symbol, quantity, price, value)
			VALUES (?, ?, ?, ?, ?)
		`, snapshotID, l.symbol, l.quantity, l.price, l.value)
		if err != nil {
			return 0, r.storageErr("record snapshot", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, r.storageErr("record snapshot", err)
	}

	r.log.Debug().
		Int64("snapshot_id", snapshotID).
		Int("items", len(lines)).
		Float64("total_value", total).
		Msg("Snapshot recorded")
	return snapshotID, nil
}

// PreviousSnapshotValues returns the per-symbol values of the snapshot
// immediately preceding the latest one. With fewer than two snapshots there
// is no previous to compare against and the result is empty - the baseline
// case, not an error.
func (r *Repository) PreviousSnapshotValues() (map[string]float64, error) {
	rows, err := r.db.Query("SELECT id FROM snapshots ORDER BY id DESC LIMIT 2")
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating snapshot ids: %w", err)
	}
	rows.Close()

	values := make(map[string]float64)
	if len(ids) < 2 {
		return values, nil
	}

	itemRows, err := r.db.Query("SELECT symbol, value FROM snapshot_items WHERE snapshot_id = ?", ids[1])
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var symbol string
		var value float64
		if err := itemRows.Scan(&symbol, &value); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot item: %w", err)
		}
		values[symbol] = value
	}

	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot items: %w", err)
	}

	return values, nil
}

// RecordExport appends an export audit entry and returns its correlation id
func (r *Repository) RecordExport(format, filename string) (string, error) {
	exportID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.Exec(`
		INSERT INTO exports (export_id, export_format, filename, created_at)
		VALUES (?, ?, ?, ?)
	`, exportID, format, filename, now)
	if err != nil {
		return "", r.storageErr("record export", err)
	}

	r.log.Info().
		Str("export_id", exportID).
		Str("format", format).
		Str("filename", filename).
		Msg("Export recorded")
	return exportID, nil
}

// ExportHistory returns the most recent export records, newest first
func (r *Repository) ExportHistory(limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, export_id, export_format, filename, created_at
		FROM exports
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query export history: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.ExportID, &rec.Format, &rec.Filename, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export records: %w", err)
	}

	return records, nil
}

// RecentTransactions returns the most recent audit rows, newest first
func (r *Repository) RecentTransactions(limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, symbol, action, quantity, price, created_at
		FROM transactions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var txn Transaction
		if err := rows.Scan(&txn.ID, &txn.Symbol, &txn.Action, &txn.Quantity, &txn.Price, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// HeldSymbols returns the symbols with quantity > 0, sorted
func (r *Repository) HeldSymbols() ([]string, error) {
	holdings, err := r.LoadHoldings()
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// validateMutation rejects invalid holding mutations before any write
func validateMutation(symbol string, quantity int64, price float64) error {
	if symbol == "" {
		return domain.Validationf("symbol must not be empty")
	}
	if quantity <= 0 {
		return domain.Validationf("quantity must be positive, got %d", quantity)
	}
	if price < 0 {
		return domain.Validationf("price must not be negative, got %v", price)
	}
	return nil
}

// holdingQuantity reads the current quantity for a symbol, 0 if absent
func holdingQuantity(tx *sql.Tx, symbol string) (int64, error) {
	var quantity int64
	err := tx.QueryRow("SELECT quantity FROM holdings WHERE symbol = ?", symbol).Scan(&quantity)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

// upsertHolding writes the new quantity for a symbol with a fresh timestamp
func upsertHolding(tx *sql.Tx, symbol string, quantity int64, now string) error {
	_, err := tx.Exec(`
		INSERT INTO holdings (symbol, quantity, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = excluded.updated_at
	`, symbol, quantity, now)
	return err
}

// appendTransaction writes one audit row inside the caller's transaction
func appendTransaction(tx *sql.Tx, symbol string, action Action, quantity int64, price float64, now string) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (symbol, action, quantity, price, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, symbol, string(action), quantity, price, now)
	return err
}

// storageErr classifies a storage failure: constraint violations become
// IntegrityError, everything else is wrapped as-is.
func (r *Repository) storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "constraint") {
		r.log.Error().Err(err).Str("op", op).Msg("Storage constraint violated")
		return domain.Integrity(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
