package fetch

import (
	"errors"
	"fmt"
)

// ErrInvalidClientConfig is returned by NewClient when the requested
// options cannot produce a working client. This is the only fatal error
// in this package: without a client no URL can be fetched at all.
var ErrInvalidClientConfig = errors.New("invalid fetch client configuration")

// TransportError reports a failure below the HTTP layer: DNS resolution,
// connect, timeout, reset, or a malformed response. It is isolated to one
// URL and never aborts a run.
type TransportError struct {
	// URL is the request URL.
	URL string

	// Err is the underlying transport failure.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx HTTP response. It carries the status code
// so callers and logs can distinguish 404s from 503s.
type StatusError struct {
	// URL is the request URL.
	URL string

	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Status is the full status line (e.g., "404 Not Found").
	Status string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status for %s: %s", e.URL, e.Status)
}
