package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/original"
)

// Media kinds accepted by GetArtwork
const (
	KindMovie   = "movie"
	KindShow    = "show"
	KindEpisode = "episode"
)

// Image is a single renderable artwork entry
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type imageEntry struct {
	FilePath string `json:"file_path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type imagesResponse struct {
	Backdrops []imageEntry `json:"backdrops"`
	Posters   []imageEntry `json:"posters"`
	Stills    []imageEntry `json:"stills"`
}

// Client handles communication with the TMDB images API. Lookups are cached
// in-process so a backfill doesn't refetch the same show poster per episode.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new TMDB client. An empty API key is allowed; artwork
// lookups then return no image without calling the network.
func NewClient(apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.New(6*time.Hour, 10*time.Minute),
		logger:     logger,
	}
}

// SetBaseURL overrides the API base URL. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// GetArtwork fetches the best artwork for a media item: the first backdrop,
// else the first poster, else the first still. Returns (nil, nil) when no API
// key is configured or the provider has no images; only network and HTTP
// failures are errors.
func (c *Client) GetArtwork(ctx context.Context, kind string, tmdbID int64, season, episode int) (*Image, error) {
	if c.apiKey == "" || tmdbID == 0 {
		return nil, nil
	}

	var endpoint string
	switch kind {
	case KindMovie:
		endpoint = fmt.Sprintf("/movie/%d/images", tmdbID)
	case KindShow:
		endpoint = fmt.Sprintf("/tv/%d/images", tmdbID)
	case KindEpisode:
		endpoint = fmt.Sprintf("/tv/%d/season/%d/episode/%d/images", tmdbID, season, episode)
	default:
		return nil, nil
	}

	if cached, found := c.cache.Get(endpoint); found {
		img := cached.(Image)
		return &img, nil
	}

	fullURL := fmt.Sprintf("%s%s?api_key=%s", c.baseURL, endpoint, c.apiKey)
	c.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"tmdb_id": tmdbID,
	}).Debug("Fetching TMDB artwork")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb API returned status %d", resp.StatusCode)
	}

	var images imagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&images); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb response: %w", err)
	}

	entry := selectImage(images)
	if entry == nil {
		return nil, nil
	}

	img := Image{
		URL:    imageBaseURL + entry.FilePath,
		Width:  entry.Width,
		Height: entry.Height,
	}
	c.cache.Set(endpoint, img, cache.DefaultExpiration)

	return &img, nil
}

// selectImage picks the first entry of the preferred category.
// No quality or resolution ranking.
func selectImage(images imagesResponse) *imageEntry {
	if len(images.Backdrops) > 0 {
		return &images.Backdrops[0]
	}
	if len(images.Posters) > 0 {
		return &images.Posters[0]
	}
	if len(images.Stills) > 0 {
		return &images.Stills[0]
	}
	return nil
}
