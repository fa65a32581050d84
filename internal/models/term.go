package models

import "time"

// ExternalIDs maps a show or movie to its IDs on external services
type ExternalIDs struct {
	Trakt int64  `json:"trakt"`
	IMDB  string `json:"imdb"`
	TMDB  int64  `json:"tmdb"`
}

// Term is a taxonomy term (one per distinct value within a taxonomy).
// Show terms additionally carry aggregate metadata: an empty Description
// marks a show term that was just created, and Runtime is nil until the
// total has been computed for the first time.
type Term struct {
	ID       uint64 `boltholdKey:"ID"`
	Taxonomy string `boltholdIndex:"Taxonomy"`
	Name     string

	// Show term metadata
	Description string
	Runtime     *int // total minutes watched across all tagged records
	PosterID    uint64
	PosterTag   string
	ExternalIDs *ExternalIDs
	Network     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
