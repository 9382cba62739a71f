package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals malformed client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized signals a missing or wrong API key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMisconfigured signals a server-side configuration gap (e.g. no index API key).
	ErrMisconfigured = errors.New("server misconfiguration")
	// ErrEngineUnavailable signals a failed call to the search engine.
	ErrEngineUnavailable = errors.New("search engine error")

	// ErrFetch signals a failed page fetch (timeout, connection, non-2xx).
	ErrFetch = errors.New("fetch failed")
	// ErrExtraction signals unparseable content or missing PDF support.
	ErrExtraction = errors.New("extraction failed")
	// ErrIndexing signals that the indexing gateway rejected or lost a document.
	ErrIndexing = errors.New("indexing failed")
)

// StatusError is returned by HTTP collaborators that answered with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
