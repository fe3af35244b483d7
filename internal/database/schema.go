package database

// Schema is the single source of truth for the portfolio store layout.
//
// Four tables: mutable holdings keyed by symbol, an append-only transaction
// log pairing every holdings mutation with an audit row, valuation snapshots
// with per-symbol line items (cascade-deleted with their parent), and an
// append-only export history.
const Schema = `
CREATE TABLE IF NOT EXISTS holdings (
	symbol     TEXT PRIMARY KEY,
	quantity   INTEGER NOT NULL CHECK (quantity >= 0),
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol     TEXT NOT NULL,
	action     TEXT NOT NULL CHECK (action IN ('ADD', 'SET', 'REMOVE', 'CLEAR')),
	quantity   INTEGER NOT NULL CHECK (quantity >= 0),
	price      REAL NOT NULL CHECK (price >= 0),
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	total_value REAL NOT NULL CHECK (total_value >= 0)
);

CREATE TABLE IF NOT EXISTS snapshot_items (
	snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	symbol      TEXT NOT NULL,
	quantity    INTEGER NOT NULL,
	price       REAL NOT NULL,
	value       REAL NOT NULL,
	PRIMARY KEY (snapshot_id, symbol)
);

CREATE TABLE IF NOT EXISTS exports (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	export_id     TEXT NOT NULL,
	export_format TEXT NOT NULL,
	filename      TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
`
