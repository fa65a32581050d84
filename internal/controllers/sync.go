package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/gowatcharr/internal/metrics"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/normalizer"
	"github.com/amaumene/gowatcharr/internal/services/tmdb"
	"github.com/amaumene/gowatcharr/internal/services/trakt"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	// maxArtworkRetries bounds the best-effort artwork fetch before the
	// failure is swallowed.
	maxArtworkRetries = 2
)

// ActivitySource provides paged watch history
type ActivitySource interface {
	FetchHistoryPage(ctx context.Context, page, limit int) ([]trakt.WatchEvent, error)
	PageCount(ctx context.Context, limit int) (int, error)
}

// ArtworkSource provides poster/backdrop/still lookups
type ArtworkSource interface {
	GetArtwork(ctx context.Context, kind string, tmdbID int64, season, episode int) (*tmdb.Image, error)
}

// SyncController drives incremental sync and the resumable full-history
// backfill. Duplicate prevention relies solely on the store's existence check
// by Trakt event ID; there is no cross-process lock.
type SyncController struct {
	db       *models.Database
	activity ActivitySource
	artwork  ArtworkSource
	pageSize int
	fullSize int
	logger   *logrus.Logger

	// Serializes full-sync page turns within this process, so a manual
	// trigger and the scheduler's resume cannot double-run a page.
	fullMu sync.Mutex

	// Serializes runtime recalculations. The persisted recalc status is
	// informational only; a stale in-progress marker is retried, not blocked.
	recalcMu sync.Mutex
}

// NewSyncController creates a new sync controller. pageSize is the incremental
// fetch size, fullSize the page size used for the full-history backfill.
func NewSyncController(db *models.Database, activity ActivitySource, artwork ArtworkSource, pageSize, fullSize int, logger *logrus.Logger) *SyncController {
	if pageSize <= 0 {
		pageSize = 10
	}
	if fullSize <= 0 {
		fullSize = 10
	}
	return &SyncController{
		db:       db,
		activity: activity,
		artwork:  artwork,
		pageSize: pageSize,
		fullSize: fullSize,
		logger:   logger,
	}
}

// RunIncremental fetches the most recent events (page 1) and ingests any that
// are not yet recorded. Safe to run repeatedly; already-recorded events are
// skipped.
func (c *SyncController) RunIncremental(ctx context.Context) error {
	c.logger.Info("Starting incremental sync")

	events, err := c.activity.FetchHistoryPage(ctx, 1, c.pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch recent history: %w", err)
	}

	c.processEvents(ctx, events)

	c.logger.Info("Incremental sync completed")
	return nil
}

// RunFullSync starts or resumes the full-history backfill and drives it
// page-by-page to completion. Returns a human-readable status.
func (c *SyncController) RunFullSync(ctx context.Context) (string, error) {
	state, err := c.db.GetSyncState()
	if err != nil {
		return "", fmt.Errorf("failed to load sync state: %w", err)
	}

	if state.Status == models.SyncStatusDone {
		return "Full history has already been imported.", nil
	}

	if state.Status == models.SyncStatusNotStarted {
		pageCount, err := c.activity.PageCount(ctx, c.fullSize)
		if err != nil {
			return "", fmt.Errorf("failed to get history page count: %w", err)
		}

		state.Status = models.SyncStatusInProgress
		state.RemainingPages = pageCount
		state.PageSize = c.fullSize
		// One-way latch: suppress per-event side effects for the whole
		// import. Intentionally never cleared.
		state.ImportMode = true

		if err := c.db.SaveSyncState(state); err != nil {
			return "", fmt.Errorf("failed to save sync state: %w", err)
		}

		c.logger.WithField("pages", pageCount).Info("Starting full history sync")
	} else {
		c.logger.WithField("remaining_pages", state.RemainingPages).Info("Resuming full history sync")
	}

	for {
		done, err := c.ContinuePage(ctx)
		if err != nil {
			return "", err
		}
		if done {
			break
		}
	}

	return "Full history sync completed.", nil
}

// ContinuePage processes exactly one backfill page: the page numbered
// RemainingPages, counting down to 1. The state is persisted after the page
// so a crash resumes at the next unprocessed page; the page in flight at
// crash time may be reprocessed, which the existence check absorbs.
// Returns true when the backfill is finished.
func (c *SyncController) ContinuePage(ctx context.Context) (bool, error) {
	c.fullMu.Lock()
	defer c.fullMu.Unlock()

	state, err := c.db.GetSyncState()
	if err != nil {
		return false, fmt.Errorf("failed to load sync state: %w", err)
	}

	if state.Status != models.SyncStatusInProgress {
		return true, nil
	}
	if state.RemainingPages <= 0 {
		state.Status = models.SyncStatusDone
		if err := c.db.SaveSyncState(state); err != nil {
			return false, fmt.Errorf("failed to save sync state: %w", err)
		}
		return true, nil
	}

	page := state.RemainingPages
	c.logger.WithFields(logrus.Fields{
		"page":      page,
		"page_size": state.PageSize,
	}).Info("Processing history page")

	events, err := c.activity.FetchHistoryPage(ctx, page, state.PageSize)
	if err != nil {
		// Leave the state untouched; the next trigger retries this page.
		return false, fmt.Errorf("failed to fetch history page %d: %w", page, err)
	}

	c.processEvents(ctx, events)
	metrics.PagesProcessed.Inc()

	state.RemainingPages--
	if state.RemainingPages == 0 {
		state.Status = models.SyncStatusDone
		c.logger.Info("Full history sync completed")
	}
	if err := c.db.SaveSyncState(state); err != nil {
		return false, fmt.Errorf("failed to save sync state: %w", err)
	}

	return state.Status == models.SyncStatusDone, nil
}

// processEvents ingests a page of events in source order. A single event's
// failure must not abort the rest of the page.
func (c *SyncController) processEvents(ctx context.Context, events []trakt.WatchEvent) {
	for _, ev := range events {
		if err := c.processEvent(ctx, ev); err != nil {
			c.logger.WithError(err).WithField("event_id", ev.ID).Error("Failed to process event")
		}
	}
}

// processEvent normalizes, dedupes, stores, and enriches one watch event
func (c *SyncController) processEvent(ctx context.Context, ev trakt.WatchEvent) error {
	norm, ok := normalizer.Normalize(ev)
	if !ok {
		metrics.EventsSkipped.Inc()
		c.logger.WithFields(logrus.Fields{
			"event_id": ev.ID,
			"type":     ev.Type,
		}).Debug("Skipping event of unknown kind")
		return nil
	}

	exists, err := c.db.EventExists(norm.TraktEventID)
	if err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	if exists {
		metrics.EventsDuplicate.Inc()
		return nil
	}

	rec := &models.EventRecord{
		TraktEventID: norm.TraktEventID,
		Kind:         norm.Kind,
		Title:        norm.Title,
		Content:      norm.Content,
		Excerpt:      norm.Excerpt,
		WatchedAt:    norm.WatchedAt,
		Runtime:      norm.Runtime,
		Meta:         norm.Meta,
	}
	if err := c.db.CreateEvent(rec); err != nil {
		return fmt.Errorf("failed to create event record: %w", err)
	}
	metrics.EventsIngested.WithLabelValues(string(norm.Kind)).Inc()

	if err := c.db.AddWatchedMinutes(norm.Runtime); err != nil {
		c.logger.WithError(err).Error("Failed to update aggregate stats")
	}

	// Artwork is best-effort enrichment: a failure here must not undo the
	// record that was just created.
	c.attachEventArtwork(ctx, rec, norm)

	showTermID, err := c.assignTaxonomies(rec, norm)
	if err != nil {
		return fmt.Errorf("failed to assign taxonomies: %w", err)
	}

	if showTermID != 0 {
		if err := c.updateShowTerm(ctx, rec, norm, showTermID); err != nil {
			c.logger.WithError(err).WithField("show", norm.Show).Error("Failed to update show term")
		}
	}

	c.logEventIngested(norm)
	return nil
}

// attachEventArtwork fetches the movie poster or episode still and attaches
// it as the record's featured image. Bounded retries, then the failure is
// swallowed.
func (c *SyncController) attachEventArtwork(ctx context.Context, rec *models.EventRecord, norm *normalizer.NormalizedEvent) {
	img, err := c.fetchArtwork(ctx, norm.ArtworkKind, norm.TMDBID, norm.Season, norm.Episode)
	if err != nil {
		metrics.ArtworkFailures.Inc()
		c.logger.WithError(err).WithField("title", norm.Title).Warn("Failed to fetch artwork")
		return
	}
	if img == nil {
		return
	}

	if _, err := c.db.AttachImage(rec.ID, img.URL, norm.Title, img.Width, img.Height, true); err != nil {
		c.logger.WithError(err).WithField("title", norm.Title).Warn("Failed to attach artwork")
	}
}

// fetchArtwork wraps the artwork source with bounded exponential backoff
func (c *SyncController) fetchArtwork(ctx context.Context, kind string, tmdbID int64, season, episode int) (*tmdb.Image, error) {
	var img *tmdb.Image

	op := func() error {
		var err error
		img, err = c.artwork.GetArtwork(ctx, kind, tmdbID, season, episode)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxArtworkRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return img, nil
}

// assignTaxonomies links the record to its terms. Returns the show term ID
// for episode events, 0 otherwise.
func (c *SyncController) assignTaxonomies(rec *models.EventRecord, norm *normalizer.NormalizedEvent) (uint64, error) {
	if _, err := c.db.UpsertTerms(rec.ID, models.TaxonomyType, norm.TypeName); err != nil {
		return 0, err
	}
	if len(norm.Genres) > 0 {
		if _, err := c.db.UpsertTerms(rec.ID, models.TaxonomyGenre, norm.Genres...); err != nil {
			return 0, err
		}
	}
	if norm.Year != 0 {
		if _, err := c.db.UpsertTerms(rec.ID, models.TaxonomyYear, fmt.Sprintf("%d", norm.Year)); err != nil {
			return 0, err
		}
	}

	if norm.Kind != models.EventKindEpisode {
		return 0, nil
	}

	showIDs, err := c.db.UpsertTerms(rec.ID, models.TaxonomyShow, norm.Show)
	if err != nil {
		return 0, err
	}
	if _, err := c.db.UpsertTerms(rec.ID, models.TaxonomySeason, fmt.Sprintf("%d", norm.Season)); err != nil {
		return 0, err
	}
	if _, err := c.db.UpsertTerms(rec.ID, models.TaxonomyEpisode, fmt.Sprintf("%d", norm.Episode)); err != nil {
		return 0, err
	}

	if len(showIDs) == 0 {
		return 0, nil
	}
	return showIDs[0], nil
}

func (c *SyncController) logEventIngested(norm *normalizer.NormalizedEvent) {
	entry := c.logger.WithFields(logrus.Fields{
		"title": norm.Title,
		"kind":  norm.Kind,
	})

	// During a full import the per-event log would flood the output.
	state, err := c.db.GetSyncState()
	if err == nil && state.ImportMode {
		entry.Debug("Recorded watch event")
		return
	}
	entry.Info("Recorded watch event")
}
