package models

import "time"

// RuntimeRecalcState tracks the runtime recalculation backfill, orthogonal
// to the full-sync state.
type RuntimeRecalcState struct {
	Status SyncStatus
	Items  int
}

// SyncState is the singleton state of the full-history backfill. Pages are
// consumed from RemainingPages down to 1; the state is persisted after every
// page so an interrupted backfill resumes at the next unprocessed page.
type SyncState struct {
	Status         SyncStatus
	RemainingPages int
	PageSize       int

	// ImportMode is a one-way latch set for the lifetime of a full sync.
	// While set, downstream per-event side effects are suppressed.
	ImportMode bool

	RuntimeRecalc RuntimeRecalcState

	UpdatedAt time.Time
}

// AggregateStats is the singleton counter of total minutes watched
type AggregateStats struct {
	TotalMinutesWatched int64
	UpdatedAt           time.Time
}
