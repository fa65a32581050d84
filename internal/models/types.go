package models

// EventKind represents the kind of watch event (movie or tv episode)
type EventKind string

const (
	EventKindMovie   EventKind = "movie"
	EventKindEpisode EventKind = "episode"
)

// SyncStatus represents the lifecycle state of a long-running sync operation
type SyncStatus string

const (
	SyncStatusNotStarted SyncStatus = "not_started"
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusDone       SyncStatus = "done"
)

// Taxonomy names used to classify event records
const (
	TaxonomyType    = "type"
	TaxonomyGenre   = "genre"
	TaxonomyYear    = "year"
	TaxonomyShow    = "show"
	TaxonomySeason  = "season"
	TaxonomyEpisode = "episode"
)

// Display values for the type taxonomy
const (
	TypeMovie    = "Movie"
	TypeTVSeries = "TV Series"
)

// Metadata keys stored on event records
const (
	MetaTraktMovieID   = "trakt_movie_id"
	MetaIMDBMovieID    = "imdb_movie_id"
	MetaTMDBMovieID    = "tmdb_movie_id"
	MetaTraktEpisodeID = "trakt_episode_id"
	MetaTraktShowID    = "trakt_show_id"
	MetaIMDBEpisodeID  = "imdb_episode_id"
	MetaIMDBShowID     = "imdb_show_id"
	MetaTMDBEpisodeID  = "tmdb_episode_id"
	MetaTMDBShowID     = "tmdb_show_id"
)
