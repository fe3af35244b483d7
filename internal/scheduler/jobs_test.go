package scheduler

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avakros/stockfolio/internal/database"
	"github.com/avakros/stockfolio/internal/modules/ledger"
	"github.com/avakros/stockfolio/internal/modules/portfolio"
	"github.com/avakros/stockfolio/internal/modules/pricing"
)

func TestSnapshotJob(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(database.Schema)
	require.NoError(t, err)

	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := ledger.NewRepository(db, log)
	svc := portfolio.NewService(repo, pricing.Default(), log)
	require.NoError(t, svc.AddHolding("Apple", 10))

	job := NewSnapshotJob(svc, log)
	assert.Equal(t, "snapshot", job.Name())
	require.NoError(t, job.Run(context.Background()))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count))
	assert.Equal(t, 1, count)
}
