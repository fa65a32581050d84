package scheduler

import (
	"context"
	"fmt"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages scheduled sync runs
type Scheduler struct {
	cron     *cron.Cron
	syncCtrl *controllers.SyncController
	db       *models.Database
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(syncCtrl *controllers.SyncController, db *models.Database, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		syncCtrl: syncCtrl,
		db:       db,
		logger:   logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every hour: check for new watch events
	_, err := s.cron.AddFunc("0 * * * *", func() {
		s.runIncremental()
	})
	if err != nil {
		return fmt.Errorf("failed to add incremental sync job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run an initial sync immediately, and resume an interrupted full
	// history import if one was left in progress.
	go func() {
		s.resumeFullSync()
		s.runIncremental()
	}()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runIncremental executes the incremental sync job
func (s *Scheduler) runIncremental() {
	s.logger.Info("Running scheduled incremental sync")
	ctx := context.Background()

	if err := s.syncCtrl.RunIncremental(ctx); err != nil {
		s.logger.WithError(err).Error("Incremental sync job failed")
	} else {
		s.logger.Info("Incremental sync job completed")
	}
}

// resumeFullSync continues a full history import that was interrupted by a
// restart. The state machine picks up at the next unprocessed page.
func (s *Scheduler) resumeFullSync() {
	state, err := s.db.GetSyncState()
	if err != nil {
		s.logger.WithError(err).Error("Failed to read sync state")
		return
	}

	if state.Status != models.SyncStatusInProgress {
		return
	}

	s.logger.WithField("remaining_pages", state.RemainingPages).Info("Resuming interrupted full sync")
	if _, err := s.syncCtrl.RunFullSync(context.Background()); err != nil {
		s.logger.WithError(err).Error("Full sync resume failed; it will retry on the next start")
	}
}
