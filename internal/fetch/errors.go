package fetch

import (
	"fmt"
	"strconv"
	"time"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP %d", e.StatusCode) }

// ContentTypeError reports a response that is not an HTML document.
type ContentTypeError struct {
	URL         string
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return "Non-HTML content type: " + e.ContentType
}

// TimeoutError reports a request that exceeded its per-request timeout.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "Request timed out after " + formatSeconds(e.Timeout)
}

// formatSeconds renders whole seconds as "30s" and fractions as "0.25s".
func formatSeconds(d time.Duration) string {
	if d%time.Second == 0 {
		return strconv.FormatInt(int64(d/time.Second), 10) + "s"
	}
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
