package models

import "time"

// EventRecord is the persisted representation of a single watch event.
// At most one record exists per TraktEventID.
type EventRecord struct {
	ID           uint64 `boltholdKey:"ID"`
	TraktEventID int64  `boltholdIndex:"TraktEventID"` // externally-assigned, globally unique per account

	Kind      EventKind
	Title     string
	Content   string
	Excerpt   string
	WatchedAt time.Time // doubles as the record's publish date

	// Runtime in minutes. For episodes this is the show's average episode
	// runtime, not the episode's own (the source API only exposes the former).
	Runtime int

	// External IDs and other flat metadata, keyed by the Meta* constants.
	Meta map[string]string

	// Taxonomy term assignments.
	TermIDs []uint64

	FeaturedImageID uint64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attachment is an image attached to an event record. The role is tagged
// explicitly: exactly one attachment per record may be featured.
type Attachment struct {
	ID       uint64 `boltholdKey:"ID"`
	RecordID uint64 `boltholdIndex:"RecordID"`

	URL      string
	Title    string
	Width    int
	Height   int
	Featured bool

	// RenderTag is an HTML snippet embedding a large version of the image.
	RenderTag string

	CreatedAt time.Time
}
