package ledger

// Action identifies the kind of holdings mutation recorded in the
// transaction log
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionSet    Action = "SET"
	ActionRemove Action = "REMOVE"
	ActionClear  Action = "CLEAR"
)

// ClearSymbol is the symbol recorded on the single CLEAR audit row
const ClearSymbol = "ALL"

// Holding is the current owned quantity of one symbol. Holdings are the
// single source of truth for what the user currently owns.
type Holding struct {
	Symbol    string `json:"symbol"`
	Quantity  int64  `json:"quantity"`
	UpdatedAt string `json:"updated_at"`
}

// Transaction is an immutable audit record of one holdings mutation.
// ADD rows record the delta applied, not the resulting total.
type Transaction struct {
	ID        int64   `json:"id"`
	Symbol    string  `json:"symbol"`
	Action    Action  `json:"action"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	CreatedAt string  `json:"created_at"`
}

// Snapshot is an immutable point-in-time capture of the portfolio's total
// value. Its items always sum to TotalValue.
type Snapshot struct {
	ID         int64   `json:"id"`
	CreatedAt  string  `json:"created_at"`
	TotalValue float64 `json:"total_value"`
}

// SnapshotItem is one held position at snapshot capture time
type SnapshotItem struct {
	SnapshotID int64   `json:"snapshot_id"`
	Symbol     string  `json:"symbol"`
	Quantity   int64   `json:"quantity"`
	Price      float64 `json:"price"`
	Value      float64 `json:"value"`
}

// ExportRecord is an append-only audit entry for one generated report
type ExportRecord struct {
	ID        int64  `json:"id"`
	ExportID  string `json:"export_id"`
	Format    string `json:"export_format"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"created_at"`
}
