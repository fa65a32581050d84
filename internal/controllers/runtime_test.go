package controllers

import (
	"context"
	"testing"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/services/trakt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateAllRuntimes(t *testing.T) {
	activity := &fakeActivity{
		pages: map[int][]trakt.WatchEvent{
			1: {
				episodeEvent(1, "Breaking Bad", 1),
				episodeEvent(2, "Breaking Bad", 2),
				episodeEvent(3, "The Wire", 1),
			},
		},
	}
	ctrl, db := setupController(t, activity, nil)
	ctx := context.Background()

	require.NoError(t, ctrl.RunIncremental(ctx))

	// Introduce drift: an incremental total that no longer matches the
	// tagged records.
	terms, err := db.GetTermsByTaxonomy(models.TaxonomyShow)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	for _, term := range terms {
		wrong := 9999
		term.Runtime = &wrong
		require.NoError(t, db.UpdateTerm(term))
	}

	msg, err := ctrl.RecalculateAllRuntimes(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "2 shows")

	terms, err = db.GetTermsByTaxonomy(models.TaxonomyShow)
	require.NoError(t, err)
	totals := make(map[string]int)
	for _, term := range terms {
		require.NotNil(t, term.Runtime)
		totals[term.Name] = *term.Runtime
	}
	assert.Equal(t, 94, totals["Breaking Bad"])
	assert.Equal(t, 47, totals["The Wire"])

	state, err := db.GetSyncState()
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusDone, state.RuntimeRecalc.Status)
	assert.Zero(t, state.RuntimeRecalc.Items)
}

func TestRecalculateAllRuntimesRecoversFromInterruption(t *testing.T) {
	activity := &fakeActivity{
		pages: map[int][]trakt.WatchEvent{
			1: {episodeEvent(1, "Breaking Bad", 1), episodeEvent(2, "Breaking Bad", 2)},
		},
	}
	ctrl, db := setupController(t, activity, nil)
	ctx := context.Background()

	require.NoError(t, ctrl.RunIncremental(ctx))

	// An interrupted run leaves a drifted total and a persisted
	// in-progress marker behind. Neither may block the next trigger.
	terms, err := db.GetTermsByTaxonomy(models.TaxonomyShow)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	wrong := 9999
	terms[0].Runtime = &wrong
	require.NoError(t, db.UpdateTerm(terms[0]))

	state, err := db.GetSyncState()
	require.NoError(t, err)
	state.RuntimeRecalc = models.RuntimeRecalcState{
		Status: models.SyncStatusInProgress,
		Items:  1,
	}
	require.NoError(t, db.SaveSyncState(state))

	msg, err := ctrl.RecalculateAllRuntimes(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "1 shows")

	terms, err = db.GetTermsByTaxonomy(models.TaxonomyShow)
	require.NoError(t, err)
	require.NotNil(t, terms[0].Runtime)
	assert.Equal(t, 94, *terms[0].Runtime, "drifted total is repaired, not stuck")

	reloaded, err := db.GetSyncState()
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusDone, reloaded.RuntimeRecalc.Status)

	// And the trigger keeps working after recovery
	_, err = ctrl.RecalculateAllRuntimes(ctx)
	require.NoError(t, err)
}

func TestRecalculateAllRuntimesNoShows(t *testing.T) {
	activity := &fakeActivity{pages: map[int][]trakt.WatchEvent{}}
	ctrl, _ := setupController(t, activity, nil)

	msg, err := ctrl.RecalculateAllRuntimes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg, "0 shows")
}
