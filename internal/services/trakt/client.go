package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.trakt.tv"
	apiVersion     = "2"
)

// Client handles communication with the Trakt API. It does not retry
// internally; callers decide how to react to each error class.
type Client struct {
	baseURL    string
	username   string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Trakt API client
func NewClient(username, apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// SetBaseURL overrides the API base URL. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// get performs an authenticated GET request and decodes the JSON response
// into result. The returned *http.Response has its body already closed; it is
// only useful for reading headers.
func (c *Client) get(ctx context.Context, path string, result interface{}) (*http.Response, error) {
	fullURL := c.baseURL + path
	c.logger.WithField("url", fullURL).Debug("Making Trakt API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", apiVersion)
	req.Header.Set("trakt-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return resp, err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp, nil
}
