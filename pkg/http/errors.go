package http

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resource not found upstream")
	ErrRateLimited  = errors.New("rate limited by upstream")
	ErrUpstreamDown = errors.New("upstream unavailable")
)

// HTTPError reports a non-200 upstream response.
type HTTPError struct {
	URL        string
	StatusCode int
	err        error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %v", e.URL, e.StatusCode, e.err)
}

func (e *HTTPError) Unwrap() error {
	return e.err
}
