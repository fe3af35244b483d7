package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, profile Profile) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "test.db"),
		Profile: profile,
		Name:    "test",
	})
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_DefaultsToStandardProfile(t *testing.T) {
	db := newTestDB(t, "")
	assert.Equal(t, ProfileStandard, db.profile)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t, ProfileLedger)

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate(), "re-applying the schema must be a no-op")

	// All five tables must exist
	rows, err := db.Conn().Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"exports", "holdings", "snapshot_items", "snapshots", "transactions"}, tables)
}

func TestHealthCheck(t *testing.T) {
	db := newTestDB(t, ProfileLedger)
	require.NoError(t, db.Migrate())

	ctx := context.Background()
	assert.NoError(t, db.HealthCheck(ctx))
	assert.NoError(t, db.QuickCheck(ctx))
}

func TestWALCheckpoint(t *testing.T) {
	db := newTestDB(t, ProfileLedger)
	require.NoError(t, db.Migrate())

	assert.NoError(t, db.WALCheckpoint("TRUNCATE"))
	assert.NoError(t, db.WALCheckpoint(""), "empty mode defaults to TRUNCATE")
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t, ProfileLedger)
	require.NoError(t, db.Migrate())

	stats, err := db.GetStats()
	require.NoError(t, err)

	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
	assert.Greater(t, stats.SizeBytes, int64(0))
}

func TestForeignKeys_CascadeSnapshotItems(t *testing.T) {
	db := newTestDB(t, ProfileLedger)
	require.NoError(t, db.Migrate())

	conn := db.Conn()
	_, err := conn.Exec("INSERT INTO snapshots (created_at, total_value) VALUES ('2026-01-01T00:00:00Z', 1800)")
	require.NoError(t, err)
	_, err = conn.Exec("INSERT INTO snapshot_items (snapshot_id, symbol, quantity, price, value) VALUES (1, 'Apple', 10, 180, 1800)")
	require.NoError(t, err)

	_, err = conn.Exec("DELETE FROM snapshots WHERE id = 1")
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM snapshot_items").Scan(&count))
	assert.Equal(t, 0, count, "items must cascade with their parent snapshot")
}
