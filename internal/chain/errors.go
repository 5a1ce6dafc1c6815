package chain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the node reports that the requested
// resource does not exist, typically a block beyond the chain tip.
var ErrNotFound = errors.New("not found")

// HTTPError carries the status code of a failed node request so the
// retry layer can distinguish transient server errors from permanent ones.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("node returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// retryableStatus reports whether the HTTP status indicates a transient
// condition worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusInternalServerError:
		return true
	default:
		return false
	}
}
