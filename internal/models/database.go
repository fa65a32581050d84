package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Singleton record keys
const (
	syncStateKey = "full_sync"
	statsKey     = "stats"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Event operations

// EventExists reports whether a record already exists for a Trakt event ID.
// This check is the sole duplicate-prevention mechanism for ingestion.
func (db *Database) EventExists(traktEventID int64) (bool, error) {
	var rec EventRecord
	err := db.store.FindOne(&rec, bolthold.Where("TraktEventID").Eq(traktEventID).Index("TraktEventID"))
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateEvent inserts a new event record and assigns its ID
func (db *Database) CreateEvent(rec *EventRecord) error {
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), rec)
}

// UpdateEvent updates an existing event record
func (db *Database) UpdateEvent(rec *EventRecord) error {
	rec.UpdatedAt = time.Now()
	return db.store.Update(rec.ID, rec)
}

// GetEventByID retrieves an event record by ID
func (db *Database) GetEventByID(id uint64) (*EventRecord, error) {
	var rec EventRecord
	if err := db.store.Get(id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAllEvents retrieves all event records
func (db *Database) GetAllEvents() ([]*EventRecord, error) {
	var recs []*EventRecord
	err := db.store.Find(&recs, nil)
	return recs, err
}

// CountEventsByKind counts event records grouped by kind
func (db *Database) CountEventsByKind() (map[EventKind]int, error) {
	recs, err := db.GetAllEvents()
	if err != nil {
		return nil, err
	}

	counts := make(map[EventKind]int)
	for _, rec := range recs {
		counts[rec.Kind]++
	}
	return counts, nil
}

// Attachment operations

// AttachImage attaches an image to an event record. When featured is true the
// image becomes the record's primary image; the role is tagged on the
// attachment itself rather than inferred from attachment order.
func (db *Database) AttachImage(recordID uint64, url, title string, width, height int, featured bool) (*Attachment, error) {
	att := &Attachment{
		RecordID:  recordID,
		URL:       url,
		Title:     title,
		Width:     width,
		Height:    height,
		Featured:  featured,
		RenderTag: fmt.Sprintf(`<div class="poster-image"><img src="%s" alt="%s"></div>`, url, title),
		CreatedAt: time.Now(),
	}

	if err := db.store.Insert(bolthold.NextSequence(), att); err != nil {
		return nil, fmt.Errorf("failed to insert attachment: %w", err)
	}

	if featured {
		rec, err := db.GetEventByID(recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to load record for featured image: %w", err)
		}
		rec.FeaturedImageID = att.ID
		if err := db.UpdateEvent(rec); err != nil {
			return nil, fmt.Errorf("failed to set featured image: %w", err)
		}
	}

	return att, nil
}

// GetAttachmentsByRecordID retrieves all attachments on a record
func (db *Database) GetAttachmentsByRecordID(recordID uint64) ([]*Attachment, error) {
	var atts []*Attachment
	err := db.store.Find(&atts, bolthold.Where("RecordID").Eq(recordID).Index("RecordID"))
	return atts, err
}

// Taxonomy operations

// UpsertTerms links a record to one term per value in the given taxonomy,
// creating missing terms on the fly. Repeated calls with the same values do
// not duplicate terms or term-to-record links. Returns the term IDs.
func (db *Database) UpsertTerms(recordID uint64, taxonomy string, values ...string) ([]uint64, error) {
	rec, err := db.GetEventByID(recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record for term upsert: %w", err)
	}

	linked := make(map[uint64]bool, len(rec.TermIDs))
	for _, id := range rec.TermIDs {
		linked[id] = true
	}

	var termIDs []uint64
	changed := false
	for _, value := range values {
		term, err := db.findOrCreateTerm(taxonomy, value)
		if err != nil {
			return nil, err
		}
		termIDs = append(termIDs, term.ID)

		if !linked[term.ID] {
			rec.TermIDs = append(rec.TermIDs, term.ID)
			linked[term.ID] = true
			changed = true
		}
	}

	if changed {
		if err := db.UpdateEvent(rec); err != nil {
			return nil, fmt.Errorf("failed to link terms: %w", err)
		}
	}

	return termIDs, nil
}

func (db *Database) findOrCreateTerm(taxonomy, name string) (*Term, error) {
	var term Term
	err := db.store.FindOne(&term, bolthold.Where("Taxonomy").Eq(taxonomy).Index("Taxonomy").And("Name").Eq(name))
	if err == nil {
		return &term, nil
	}
	if !errors.Is(err, bolthold.ErrNotFound) {
		return nil, err
	}

	term = Term{
		Taxonomy:  taxonomy,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.store.Insert(bolthold.NextSequence(), &term); err != nil {
		return nil, fmt.Errorf("failed to create term %q in %q: %w", name, taxonomy, err)
	}
	return &term, nil
}

// GetTermByID retrieves a term by ID
func (db *Database) GetTermByID(id uint64) (*Term, error) {
	var term Term
	if err := db.store.Get(id, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// UpdateTerm updates an existing term
func (db *Database) UpdateTerm(term *Term) error {
	term.UpdatedAt = time.Now()
	return db.store.Update(term.ID, term)
}

// GetTermsByTaxonomy retrieves all terms in a taxonomy
func (db *Database) GetTermsByTaxonomy(taxonomy string) ([]*Term, error) {
	var terms []*Term
	err := db.store.Find(&terms, bolthold.Where("Taxonomy").Eq(taxonomy).Index("Taxonomy"))
	return terms, err
}

// EventRuntimesByTermID returns the runtime of every event record tagged with
// the given term. Full scan, used for runtime recomputation.
func (db *Database) EventRuntimesByTermID(termID uint64) ([]int, error) {
	var recs []*EventRecord
	err := db.store.Find(&recs, bolthold.Where("TermIDs").Contains(termID))
	if err != nil {
		return nil, err
	}

	runtimes := make([]int, 0, len(recs))
	for _, rec := range recs {
		runtimes = append(runtimes, rec.Runtime)
	}
	return runtimes, nil
}

// Sync state operations

// GetSyncState retrieves the full-sync state singleton. A missing record is
// returned as a fresh not-started state.
func (db *Database) GetSyncState() (*SyncState, error) {
	var state SyncState
	err := db.store.Get(syncStateKey, &state)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return &SyncState{
				Status:        SyncStatusNotStarted,
				RuntimeRecalc: RuntimeRecalcState{Status: SyncStatusNotStarted},
			}, nil
		}
		return nil, err
	}
	return &state, nil
}

// SaveSyncState persists the full-sync state singleton
func (db *Database) SaveSyncState(state *SyncState) error {
	state.UpdatedAt = time.Now()
	return db.store.Upsert(syncStateKey, state)
}

// Aggregate stats operations

// GetStats retrieves the aggregate stats singleton. A missing record is
// returned as zero stats.
func (db *Database) GetStats() (*AggregateStats, error) {
	var stats AggregateStats
	err := db.store.Get(statsKey, &stats)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return &AggregateStats{}, nil
		}
		return nil, err
	}
	return &stats, nil
}

// AddWatchedMinutes increments the total-minutes-watched counter. If the
// counter does not exist yet it is seeded from a full scan of existing
// records, which already includes any event inserted before this call.
func (db *Database) AddWatchedMinutes(minutes int) error {
	var stats AggregateStats
	err := db.store.Get(statsKey, &stats)
	if err != nil {
		if !errors.Is(err, bolthold.ErrNotFound) {
			return err
		}

		recs, err := db.GetAllEvents()
		if err != nil {
			return fmt.Errorf("failed to seed stats from existing records: %w", err)
		}
		for _, rec := range recs {
			stats.TotalMinutesWatched += int64(rec.Runtime)
		}
	} else {
		stats.TotalMinutesWatched += int64(minutes)
	}

	stats.UpdatedAt = time.Now()
	return db.store.Upsert(statsKey, &stats)
}
