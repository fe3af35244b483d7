// Command server runs the stockfolio portfolio engine: the SQLite ledger
// store, the HTTP API, and the background snapshot and maintenance jobs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avakros/stockfolio/internal/config"
	"github.com/avakros/stockfolio/internal/database"
	"github.com/avakros/stockfolio/internal/modules/ledger"
	"github.com/avakros/stockfolio/internal/modules/portfolio"
	"github.com/avakros/stockfolio/internal/modules/pricing"
	"github.com/avakros/stockfolio/internal/modules/reports"
	"github.com/avakros/stockfolio/internal/scheduler"
	"github.com/avakros/stockfolio/internal/server"
	"github.com/avakros/stockfolio/pkg/logger"
)

const jobTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting stockfolio")

	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileLedger,
		Name:    "portfolio",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	prices, err := pricing.Load(cfg.PriceTablePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PriceTablePath).Msg("Failed to load price table")
	}
	log.Info().Int("symbols", len(prices.Symbols())).Msg("Price table loaded")

	ledgerRepo := ledger.NewRepository(db.Conn(), log)
	portfolioSvc := portfolio.NewService(ledgerRepo, prices, log)
	exportSvc := reports.NewService(ledgerRepo, cfg.ExportDir, log)
	handler := portfolio.NewHandler(portfolioSvc, ledgerRepo, exportSvc, log)

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		DB:        db,
		Portfolio: handler,
	})

	sched := scheduler.New(log, jobTimeout)
	if err := sched.AddJob(cfg.SnapshotSchedule, scheduler.NewSnapshotJob(portfolioSvc, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule snapshot job")
	}
	if err := sched.AddJob(cfg.MaintenanceSchedule, scheduler.NewMaintenanceJob(db, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule maintenance job")
	}
	sched.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sched.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := db.WALCheckpoint("TRUNCATE"); err != nil {
		log.Warn().Err(err).Msg("Final WAL checkpoint failed")
	}

	log.Info().Msg("Stockfolio stopped")
}
