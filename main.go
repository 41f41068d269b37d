package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"property-tracker/config"
	"property-tracker/scraper/property24"
	"property-tracker/services"
	"property-tracker/storage"
	"property-tracker/utils"
)

func main() {
	startedAt := time.Now()
	cfg := config.Load()
	logger := utils.NewLogger(utils.WithLevel(cfg.LogLevel), utils.WithJSON(cfg.IsProduction()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, startedAt); err != nil {
		logger.Error("Run failed: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger, startedAt time.Time) error {
	logger.Info("=== Property tracker starting ===")
	logger.Info("Config: fetch mode %s | output dir %s | postgres %t",
		cfg.FetchMode, cfg.OutputDir, cfg.PostgresEnabled)

	scraper, err := property24.New(cfg, logger)
	if err != nil {
		return err
	}

	var store services.SnapshotStore
	if cfg.PostgresEnabled {
		retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.DSN(), logger.RunID(), retry)
		if err != nil {
			return fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		defer pgWriter.Close()
		store = pgWriter
	}

	tracker := services.NewTracker(scraper, store, logger)

	listingsPath := storage.TimestampedPath(cfg.OutputDir, storage.ListingsFilePrefix, startedAt)
	report, err := tracker.TrackListings(ctx, cfg.ListingsURL, listingsPath)
	if err != nil {
		return fmt.Errorf("track listings: %w", err)
	}
	tracker.Insights().Print(os.Stdout, report)

	if cfg.RecentSalesURL != "" {
		salesPath := storage.TimestampedPath(cfg.OutputDir, storage.SalesFilePrefix, startedAt)
		if _, err := tracker.TrackRecentSales(ctx, cfg.RecentSalesURL, salesPath); err != nil {
			return fmt.Errorf("track recent sales: %w", err)
		}
	}

	logger.Info("Done. Listings → %s", listingsPath)
	return nil
}
