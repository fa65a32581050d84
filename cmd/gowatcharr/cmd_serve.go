package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/gowatcharr/internal/api"
	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/scheduler"
	"github.com/amaumene/gowatcharr/internal/services/tmdb"
	"github.com/amaumene/gowatcharr/internal/services/trakt"
	"github.com/amaumene/gowatcharr/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync daemon and HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// bootstrap wires up the shared application pieces: config, logger,
// database, API clients, and the sync controller.
func bootstrap() (*config.Config, *logrus.Logger, *models.Database, *controllers.SyncController, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Database initialized")

	traktClient := trakt.NewClient(cfg.TraktUsername, cfg.TraktAPIKey, logger)
	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey, logger)
	if cfg.TMDBAPIKey == "" {
		logger.Warn("No TMDB API key configured, artwork enrichment disabled")
	}

	syncCtrl := controllers.NewSyncController(db, traktClient, tmdbClient, cfg.SyncPageSize, cfg.FullSyncPageSize, logger)

	return cfg, logger, db, syncCtrl, nil
}

func runServe() error {
	cfg, logger, db, syncCtrl, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Starting gowatcharr")

	sched := scheduler.NewScheduler(syncCtrl, db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	server := api.NewServer(cfg, db, syncCtrl, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("gowatcharr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("gowatcharr stopped")
	return nil
}
