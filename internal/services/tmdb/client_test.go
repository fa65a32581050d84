package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("tmdbkey", testLogger())
	client.SetBaseURL(server.URL)
	return client
}

func TestGetArtworkPrefersBackdrop(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/images", r.URL.Path)
		assert.Equal(t, "tmdbkey", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{
			"backdrops": [{"file_path": "/bd1.jpg", "width": 1920, "height": 1080},
			              {"file_path": "/bd2.jpg", "width": 3840, "height": 2160}],
			"posters": [{"file_path": "/p1.jpg", "width": 500, "height": 750}]
		}`))
	})

	img, err := client.GetArtwork(context.Background(), KindMovie, 603, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, img)

	// First backdrop wins, regardless of resolution
	assert.Equal(t, "https://image.tmdb.org/t/p/original/bd1.jpg", img.URL)
	assert.Equal(t, 1920, img.Width)
	assert.Equal(t, 1080, img.Height)
}

func TestGetArtworkFallsBackToPoster(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"backdrops": [],
			"posters": [{"file_path": "/p1.jpg", "width": 500, "height": 750}],
			"stills": [{"file_path": "/s1.jpg", "width": 1280, "height": 720}]
		}`))
	})

	img, err := client.GetArtwork(context.Background(), KindShow, 1396, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/p1.jpg", img.URL)
}

func TestGetArtworkFallsBackToStill(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1396/season/1/episode/1/images", r.URL.Path)
		w.Write([]byte(`{"stills": [{"file_path": "/s1.jpg", "width": 1280, "height": 720}]}`))
	})

	img, err := client.GetArtwork(context.Background(), KindEpisode, 1396, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/s1.jpg", img.URL)
}

func TestGetArtworkNoImages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"backdrops": [], "posters": [], "stills": []}`))
	})

	img, err := client.GetArtwork(context.Background(), KindMovie, 1, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestGetArtworkNoAPIKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient("", testLogger())
	client.SetBaseURL(server.URL)

	img, err := client.GetArtwork(context.Background(), KindMovie, 603, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, img)
	assert.False(t, called, "no request should be made without an API key")
}

func TestGetArtworkHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetArtwork(context.Background(), KindMovie, 603, 0, 0)
	assert.Error(t, err)
}

func TestGetArtworkCaches(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"posters": [{"file_path": "/p1.jpg", "width": 500, "height": 750}]}`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		img, err := client.GetArtwork(ctx, KindShow, 1396, 0, 0)
		require.NoError(t, err)
		require.NotNil(t, img)
	}

	assert.Equal(t, 1, calls)
}
