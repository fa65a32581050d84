package trakt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// pageCountHeader carries the total number of pages for the requested limit
const pageCountHeader = "X-Pagination-Page-Count"

// IDs holds a media item's identifiers on external services
type IDs struct {
	Trakt int64  `json:"trakt"`
	Slug  string `json:"slug"`
	IMDB  string `json:"imdb"`
	TMDB  int64  `json:"tmdb"`
}

// Movie is the movie payload of a watch event
type Movie struct {
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Tagline  string   `json:"tagline"`
	Overview string   `json:"overview"`
	Runtime  int      `json:"runtime"`
	Genres   []string `json:"genres"`
	IDs      IDs      `json:"ids"`
}

// Episode is the episode payload of a watch event
type Episode struct {
	Season   int    `json:"season"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Overview string `json:"overview"`
	IDs      IDs    `json:"ids"`
}

// Show is the parent-show payload accompanying an episode event.
// Runtime is the show's average episode runtime in minutes.
type Show struct {
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Overview string   `json:"overview"`
	Runtime  int      `json:"runtime"`
	Network  string   `json:"network"`
	Genres   []string `json:"genres"`
	IDs      IDs      `json:"ids"`
}

// WatchEvent is one unit of watch history. Type selects which payload is set;
// unknown types are carried through so the normalizer can skip them.
type WatchEvent struct {
	ID        int64     `json:"id"`
	WatchedAt time.Time `json:"watched_at"`
	Action    string    `json:"action"`
	Type      string    `json:"type"`
	Movie     *Movie    `json:"movie,omitempty"`
	Episode   *Episode  `json:"episode,omitempty"`
	Show      *Show     `json:"show,omitempty"`
}

// FetchHistoryPage retrieves one page of the user's watch history,
// in the order the API returns it (most recent first).
func (c *Client) FetchHistoryPage(ctx context.Context, page, limit int) ([]WatchEvent, error) {
	path := fmt.Sprintf("/users/%s/history?extended=full&page=%d&limit=%d", c.username, page, limit)

	var events []WatchEvent
	if _, err := c.get(ctx, path, &events); err != nil {
		return nil, fmt.Errorf("failed to get watch history page %d: %w", page, err)
	}

	return events, nil
}

// PageCount probes the history endpoint and reads the total page count for
// the given page size from the pagination header. The count is captured once
// at full-sync start and can go stale if new events land during a backfill.
func (c *Client) PageCount(ctx context.Context, limit int) (int, error) {
	path := fmt.Sprintf("/users/%s/history?extended=full&page=1&limit=%d", c.username, limit)

	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to probe history page count: %w", err)
	}

	header := resp.Header.Get(pageCountHeader)
	count, err := strconv.Atoi(header)
	if err != nil {
		return 0, fmt.Errorf("invalid %s header %q: %w", pageCountHeader, header, err)
	}

	return count, nil
}

// ConnectionStatus is the user-facing result of a credentials check
type ConnectionStatus struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// TestConnection issues a minimal history request and classifies the outcome
// for display. Network failures map onto the unavailable message.
func (c *Client) TestConnection(ctx context.Context) ConnectionStatus {
	path := fmt.Sprintf("/users/%s/history?limit=1", c.username)

	resp, err := c.get(ctx, path, nil)
	if err == nil {
		return ConnectionStatus{Message: "Your Trakt.tv credentials are working.", Code: http.StatusOK}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return ConnectionStatus{Message: "Invalid API key. Please check your Trakt.tv application credentials.", Code: http.StatusForbidden}
	case errors.Is(err, ErrRateLimited):
		return ConnectionStatus{Message: "Trakt.tv is rate limiting requests. Please wait a moment and try again.", Code: http.StatusTooManyRequests}
	case errors.Is(err, ErrNotFound):
		return ConnectionStatus{Message: "Unknown username. Please check the Trakt.tv username.", Code: http.StatusNotFound}
	case errors.Is(err, ErrUpstreamUnavailable), IsTransient(err):
		return ConnectionStatus{Message: "Trakt.tv is currently unavailable. Please try again later.", Code: http.StatusServiceUnavailable}
	default:
		code := 0
		if resp != nil {
			code = resp.StatusCode
		}
		return ConnectionStatus{Message: fmt.Sprintf("Unexpected response from Trakt.tv: %v", err), Code: code}
	}
}
