package normalizer

import (
	"testing"
	"time"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/services/trakt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movieEvent() trakt.WatchEvent {
	return trakt.WatchEvent{
		ID:        101,
		Type:      "movie",
		WatchedAt: time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC),
		Movie: &trakt.Movie{
			Title:    "The Matrix",
			Year:     1999,
			Tagline:  "Free your mind",
			Overview: "A hacker learns the truth.",
			Runtime:  136,
			Genres:   []string{"action", "sci-fi"},
			IDs:      trakt.IDs{Trakt: 12, IMDB: "tt0133093", TMDB: 603},
		},
	}
}

func episodeEvent() trakt.WatchEvent {
	return trakt.WatchEvent{
		ID:        202,
		Type:      "episode",
		WatchedAt: time.Date(2024, 3, 2, 21, 0, 0, 0, time.UTC),
		Episode: &trakt.Episode{
			Season:   1,
			Number:   1,
			Title:    "Pilot",
			Overview: "It all begins.",
			IDs:      trakt.IDs{Trakt: 34, IMDB: "tt0959621", TMDB: 62085},
		},
		Show: &trakt.Show{
			Title:    "Breaking Bad",
			Year:     2008,
			Overview: "A chemistry teacher turns to crime.",
			Runtime:  47,
			Network:  "AMC",
			Genres:   []string{"drama", "crime"},
			IDs:      trakt.IDs{Trakt: 1388, IMDB: "tt0903747", TMDB: 1396},
		},
	}
}

func TestNormalizeMovie(t *testing.T) {
	norm, ok := Normalize(movieEvent())
	require.True(t, ok)

	assert.Equal(t, int64(101), norm.TraktEventID)
	assert.Equal(t, models.EventKindMovie, norm.Kind)
	assert.Equal(t, "The Matrix", norm.Title)
	assert.Equal(t, "A hacker learns the truth.", norm.Content)
	assert.Equal(t, "Free your mind", norm.Excerpt)
	assert.Equal(t, 136, norm.Runtime)
	assert.Equal(t, models.TypeMovie, norm.TypeName)
	assert.Equal(t, []string{"Action", "Sci-fi"}, norm.Genres)
	assert.Equal(t, 1999, norm.Year)
	assert.Equal(t, "movie", norm.ArtworkKind)
	assert.Equal(t, int64(603), norm.TMDBID)

	assert.Equal(t, "12", norm.Meta[models.MetaTraktMovieID])
	assert.Equal(t, "tt0133093", norm.Meta[models.MetaIMDBMovieID])
	assert.Equal(t, "603", norm.Meta[models.MetaTMDBMovieID])
}

func TestNormalizeEpisode(t *testing.T) {
	norm, ok := Normalize(episodeEvent())
	require.True(t, ok)

	assert.Equal(t, models.EventKindEpisode, norm.Kind)
	// Show name is appended so titles stay unique across shows
	assert.Equal(t, "Pilot -- Breaking Bad", norm.Title)
	assert.Equal(t, "It all begins.", norm.Content)
	assert.Equal(t, norm.Content, norm.Excerpt)
	// Runtime is the show's average episode runtime, not the episode's own
	assert.Equal(t, 47, norm.Runtime)
	assert.Equal(t, models.TypeTVSeries, norm.TypeName)
	assert.Equal(t, []string{"Drama", "Crime"}, norm.Genres)
	assert.Equal(t, 2008, norm.Year)
	assert.Equal(t, "Breaking Bad", norm.Show)
	assert.Equal(t, 1, norm.Season)
	assert.Equal(t, 1, norm.Episode)

	// Artwork targets the show's TMDB ID plus season/episode numbers
	assert.Equal(t, "episode", norm.ArtworkKind)
	assert.Equal(t, int64(1396), norm.TMDBID)
	assert.Equal(t, int64(1396), norm.TMDBShowID)

	assert.Equal(t, "A chemistry teacher turns to crime.", norm.ShowOverview)
	assert.Equal(t, "AMC", norm.ShowNetwork)
	require.NotNil(t, norm.ShowIDs)
	assert.Equal(t, int64(1388), norm.ShowIDs.Trakt)
	assert.Equal(t, "tt0903747", norm.ShowIDs.IMDB)
	assert.Equal(t, int64(1396), norm.ShowIDs.TMDB)

	assert.Equal(t, "34", norm.Meta[models.MetaTraktEpisodeID])
	assert.Equal(t, "1388", norm.Meta[models.MetaTraktShowID])
	assert.Equal(t, "1396", norm.Meta[models.MetaTMDBShowID])
}

func TestNormalizeSkipsUnknownKind(t *testing.T) {
	ev := trakt.WatchEvent{ID: 303, Type: "comment"}
	norm, ok := Normalize(ev)
	assert.False(t, ok)
	assert.Nil(t, norm)
}

func TestNormalizeSkipsMissingPayload(t *testing.T) {
	// Kind says movie but the payload is missing: skip, don't crash.
	norm, ok := Normalize(trakt.WatchEvent{ID: 1, Type: "movie"})
	assert.False(t, ok)
	assert.Nil(t, norm)

	// Episode without its parent show is equally unusable.
	ev := episodeEvent()
	ev.Show = nil
	norm, ok = Normalize(ev)
	assert.False(t, ok)
	assert.Nil(t, norm)
}
