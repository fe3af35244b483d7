package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/avakros/stockfolio/internal/database"
	"github.com/avakros/stockfolio/internal/modules/portfolio"
)

// SnapshotJob records a valuation snapshot so the overview always has a
// recent movement baseline
type SnapshotJob struct {
	portfolio *portfolio.Service
	log       zerolog.Logger
}

// NewSnapshotJob creates the scheduled snapshot job
func NewSnapshotJob(svc *portfolio.Service, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		portfolio: svc,
		log:       log.With().Str("job", "snapshot").Logger(),
	}
}

func (j *SnapshotJob) Name() string { return "snapshot" }

func (j *SnapshotJob) Run(ctx context.Context) error {
	id, err := j.portfolio.TakeSnapshot()
	if err != nil {
		return fmt.Errorf("scheduled snapshot failed: %w", err)
	}
	j.log.Debug().Int64("snapshot_id", id).Msg("Snapshot recorded")
	return nil
}

// MaintenanceJob truncates the WAL so the ledger file stays compact
type MaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates the scheduled maintenance job
func NewMaintenanceJob(db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "maintenance").Logger(),
	}
}

func (j *MaintenanceJob) Name() string { return "maintenance" }

func (j *MaintenanceJob) Run(ctx context.Context) error {
	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		return fmt.Errorf("wal checkpoint failed: %w", err)
	}

	if err := j.db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("integrity quick_check failed: %w", err)
	}

	j.log.Debug().Msg("Maintenance pass completed")
	return nil
}
