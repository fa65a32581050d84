// Package normalizer shapes raw Trakt watch events into storable records.
package normalizer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/services/tmdb"
	"github.com/amaumene/gowatcharr/internal/services/trakt"
	"github.com/amaumene/gowatcharr/internal/utils"
)

// NormalizedEvent is the storage-ready shape of a watch event, plus the
// show-level fields the ingestion flow needs for term enrichment and artwork.
type NormalizedEvent struct {
	TraktEventID int64
	Kind         models.EventKind
	Title        string
	WatchedAt    time.Time
	Content      string
	Excerpt      string
	Runtime      int
	Meta         map[string]string

	// Taxonomy values
	TypeName string
	Genres   []string
	Year     int
	Show     string
	Season   int
	Episode  int

	// Artwork lookup targets
	ArtworkKind string
	TMDBID      int64

	// Show enrichment (episodes only)
	TMDBShowID   int64
	ShowOverview string
	ShowNetwork  string
	ShowIDs      *models.ExternalIDs
}

// Normalize converts a raw watch event into a normalized record. The second
// return value is false when the event should be skipped: unknown event kinds
// and events missing their kind payload must not abort ingestion.
func Normalize(ev trakt.WatchEvent) (*NormalizedEvent, bool) {
	switch ev.Type {
	case "movie":
		if ev.Movie == nil {
			return nil, false
		}
		return normalizeMovie(ev), true
	case "episode":
		if ev.Episode == nil || ev.Show == nil {
			return nil, false
		}
		return normalizeEpisode(ev), true
	default:
		return nil, false
	}
}

func normalizeMovie(ev trakt.WatchEvent) *NormalizedEvent {
	movie := ev.Movie

	return &NormalizedEvent{
		TraktEventID: ev.ID,
		Kind:         models.EventKindMovie,
		Title:        movie.Title,
		WatchedAt:    ev.WatchedAt,
		Content:      movie.Overview,
		Excerpt:      movie.Tagline,
		Runtime:      movie.Runtime,
		Meta: map[string]string{
			models.MetaTraktMovieID: strconv.FormatInt(movie.IDs.Trakt, 10),
			models.MetaIMDBMovieID:  movie.IDs.IMDB,
			models.MetaTMDBMovieID:  strconv.FormatInt(movie.IDs.TMDB, 10),
		},
		TypeName:    models.TypeMovie,
		Genres:      utils.CapitalizeGenres(movie.Genres),
		Year:        movie.Year,
		ArtworkKind: tmdb.KindMovie,
		TMDBID:      movie.IDs.TMDB,
	}
}

func normalizeEpisode(ev trakt.WatchEvent) *NormalizedEvent {
	episode := ev.Episode
	show := ev.Show

	// Append the show name so episode titles stay unique across shows
	// ("Pilot" alone would collide constantly).
	title := fmt.Sprintf("%s -- %s", episode.Title, show.Title)

	return &NormalizedEvent{
		TraktEventID: ev.ID,
		Kind:         models.EventKindEpisode,
		Title:        title,
		WatchedAt:    ev.WatchedAt,
		Content:      episode.Overview,
		Excerpt:      episode.Overview,
		// The source API only exposes the show's average episode runtime.
		Runtime: show.Runtime,
		Meta: map[string]string{
			models.MetaTraktEpisodeID: strconv.FormatInt(episode.IDs.Trakt, 10),
			models.MetaTraktShowID:    strconv.FormatInt(show.IDs.Trakt, 10),
			models.MetaIMDBEpisodeID:  episode.IDs.IMDB,
			models.MetaIMDBShowID:     show.IDs.IMDB,
			models.MetaTMDBEpisodeID:  strconv.FormatInt(episode.IDs.TMDB, 10),
			models.MetaTMDBShowID:     strconv.FormatInt(show.IDs.TMDB, 10),
		},
		TypeName:     models.TypeTVSeries,
		Genres:       utils.CapitalizeGenres(show.Genres),
		Year:         show.Year,
		Show:         show.Title,
		Season:       episode.Season,
		Episode:      episode.Number,
		ArtworkKind:  tmdb.KindEpisode,
		TMDBID:       show.IDs.TMDB,
		TMDBShowID:   show.IDs.TMDB,
		ShowOverview: show.Overview,
		ShowNetwork:  show.Network,
		ShowIDs: &models.ExternalIDs{
			Trakt: show.IDs.Trakt,
			IMDB:  show.IDs.IMDB,
			TMDB:  show.IDs.TMDB,
		},
	}
}
