// Package httputil provides the shared HTTP client for Home Assistant
// REST calls.
package httputil

import (
	"net/http"
	"time"
)

// RequestTimeout bounds a single state fetch; retries are layered on top
// by the ingest client.
const RequestTimeout = 30 * time.Second

// NewClient returns the client used for Home Assistant requests.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: RequestTimeout,
	}
}
