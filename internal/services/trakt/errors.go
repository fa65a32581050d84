package trakt

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy for Trakt API failures. The client classifies, callers
// decide whether to surface, skip, or wait for the next scheduled run.
var (
	ErrUnauthorized        = errors.New("trakt: invalid or revoked API key")
	ErrNotFound            = errors.New("trakt: user not found")
	ErrRateLimited         = errors.New("trakt: rate limited")
	ErrUpstreamUnavailable = errors.New("trakt: service unavailable")
)

// TransientError wraps a network-level failure (timeout, connection reset)
// that the next scheduled invocation may not hit again.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("trakt: transient error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a network-level transient failure
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// classifyStatus maps an HTTP status code onto the error taxonomy.
// Returns nil for 2xx.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code >= 500:
		return ErrUpstreamUnavailable
	default:
		return fmt.Errorf("trakt: unexpected status %d", code)
	}
}
