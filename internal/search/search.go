package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hyperifyio/webresearch/internal/headers"
)

// defaultLimit applies when a provider is asked for a non-positive count.
const defaultLimit = 10

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source,omitempty"` // provider name for observability
}

// Provider is a minimal interface for search providers. Results are ordered
// as the provider ranked them and capped at limit.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// StatusError reports a non-2xx answer from a search backend.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status: %d", e.Provider, e.StatusCode)
}

// request is one GET against a provider endpoint.
type request struct {
	provider string
	endpoint *url.URL
	params   url.Values
	client   *http.Client
	timeout  time.Duration
	headers  *headers.Pool
}

// do sends the request and returns the response when its status is 2xx.
// The caller closes the body.
func (r request) do(ctx context.Context) (*http.Response, error) {
	u := *r.endpoint
	q := u.Query()
	for k, vs := range r.params {
		q[k] = vs
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	pool := r.headers
	if pool == nil {
		pool = headers.Default()
	}
	pool.Apply(req)

	hc := r.client
	if hc == nil {
		hc = &http.Client{Timeout: r.timeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", r.provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{Provider: r.provider, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// checkQuery normalizes the shared query and limit arguments.
func checkQuery(query string, limit int) (string, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", 0, fmt.Errorf("empty query")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return query, limit, nil
}
