package client

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when the requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidID is returned for product ids that are not positive integers.
	ErrInvalidID = errors.New("invalid product ID")
)

// NetworkError reports a transport level failure: DNS, connection refused,
// timeout or a cancelled context.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx response from the catalog API.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string

	notFound bool
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Is reports whether the response means the resource does not exist.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrNotFound && (e.notFound || e.StatusCode == http.StatusNotFound)
}
