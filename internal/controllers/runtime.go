package controllers

import (
	"context"
	"fmt"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/normalizer"
	"github.com/amaumene/gowatcharr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// updateShowTerm maintains the per-show aggregate metadata after an episode
// event has been stored and linked to its show term.
//
// Two independent branches run here:
//   - runtime gap repair: a show term with no runtime total gets a full
//     recomputation (never seeded from just the current event); a term with a
//     total gets an incremental add.
//   - new show: a show term with an empty description was just created, so it
//     receives its description, a poster, external IDs, and network.
//
// A show can hit both branches at once (the common first-episode case), or
// only the gap repair on a later event once the description is filled.
func (c *SyncController) updateShowTerm(ctx context.Context, rec *models.EventRecord, norm *normalizer.NormalizedEvent, termID uint64) error {
	term, err := c.db.GetTermByID(termID)
	if err != nil {
		return fmt.Errorf("failed to load show term: %w", err)
	}

	if term.Runtime == nil {
		total, err := c.seriesTotalRuntime(termID)
		if err != nil {
			return fmt.Errorf("failed to compute show runtime: %w", err)
		}
		term.Runtime = &total
	} else {
		*term.Runtime += norm.Runtime
	}

	if term.Description == "" {
		term.Description = norm.ShowOverview
		term.ExternalIDs = norm.ShowIDs
		term.Network = norm.ShowNetwork

		// The show poster rides on the current episode's record as a
		// supplementary (non-featured) attachment.
		poster, err := c.fetchArtwork(ctx, tmdb.KindShow, norm.TMDBShowID, 0, 0)
		if err != nil {
			c.logger.WithError(err).WithField("show", norm.Show).Warn("Failed to fetch show poster")
		} else if poster != nil {
			att, err := c.db.AttachImage(rec.ID, poster.URL, norm.Show, poster.Width, poster.Height, false)
			if err != nil {
				c.logger.WithError(err).WithField("show", norm.Show).Warn("Failed to attach show poster")
			} else {
				term.PosterID = att.ID
				term.PosterTag = att.RenderTag
			}
		}

		c.logger.WithField("show", norm.Show).Info("Created show term")
	}

	return c.db.UpdateTerm(term)
}

// seriesTotalRuntime recomputes a show term's total watched minutes from a
// full scan of its tagged records
func (c *SyncController) seriesTotalRuntime(termID uint64) (int, error) {
	runtimes, err := c.db.EventRuntimesByTermID(termID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, r := range runtimes {
		total += r
	}
	return total, nil
}

// RecalculateAllRuntimes recomputes every show term's total watched minutes
// from scratch, overwriting any incrementally-maintained totals. The show
// count is small relative to the event count, so the pass is not resumable
// per show: a persisted in-progress marker left behind by an interrupted run
// just means the whole pass runs again. recalcMu is the only active-run
// guard. Returns a human-readable status.
func (c *SyncController) RecalculateAllRuntimes(ctx context.Context) (string, error) {
	c.recalcMu.Lock()
	defer c.recalcMu.Unlock()

	state, err := c.db.GetSyncState()
	if err != nil {
		return "", fmt.Errorf("failed to load sync state: %w", err)
	}

	if state.RuntimeRecalc.Status == models.SyncStatusInProgress {
		c.logger.Info("Retrying interrupted runtime recalculation")
	}

	terms, err := c.db.GetTermsByTaxonomy(models.TaxonomyShow)
	if err != nil {
		return "", fmt.Errorf("failed to list show terms: %w", err)
	}

	state.RuntimeRecalc = models.RuntimeRecalcState{
		Status: models.SyncStatusInProgress,
		Items:  len(terms),
	}
	if err := c.db.SaveSyncState(state); err != nil {
		return "", fmt.Errorf("failed to save sync state: %w", err)
	}

	c.logger.WithField("shows", len(terms)).Info("Recalculating show runtimes")

	for _, term := range terms {
		total, err := c.seriesTotalRuntime(term.ID)
		if err != nil {
			return "", c.abortRecalc(state, fmt.Errorf("failed to recompute runtime for %q: %w", term.Name, err))
		}
		term.Runtime = &total
		if err := c.db.UpdateTerm(term); err != nil {
			return "", c.abortRecalc(state, fmt.Errorf("failed to update term %q: %w", term.Name, err))
		}

		c.logger.WithFields(logrus.Fields{
			"show":    term.Name,
			"minutes": total,
		}).Debug("Recalculated show runtime")
	}

	state.RuntimeRecalc = models.RuntimeRecalcState{
		Status: models.SyncStatusDone,
		Items:  0,
	}
	if err := c.db.SaveSyncState(state); err != nil {
		return "", fmt.Errorf("failed to save sync state: %w", err)
	}

	return fmt.Sprintf("Recalculated runtimes for %d shows.", len(terms)), nil
}

// abortRecalc clears the persisted in-progress marker so a failed pass does
// not block later triggers, then passes the cause through.
func (c *SyncController) abortRecalc(state *models.SyncState, cause error) error {
	state.RuntimeRecalc = models.RuntimeRecalcState{Status: models.SyncStatusNotStarted}
	if err := c.db.SaveSyncState(state); err != nil {
		c.logger.WithError(err).Error("Failed to clear recalculation state")
	}
	return cause
}
