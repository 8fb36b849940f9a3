package httputil

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// NewClientWithTimeout returns an HTTP client with the given overall timeout.
// Timed-out upstream calls degrade to missing data, so callers may want a
// tighter bound than the default.
func NewClientWithTimeout(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}
