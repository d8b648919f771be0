package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/webresearch/internal/headers"
)

// SearxNG implements Provider against the JSON API of a SearxNG instance.
type SearxNG struct {
	// BaseURL is the instance root; "/search" is appended when missing.
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// Headers defaults to headers.Default().
	Headers *headers.Pool
}

func (s *SearxNG) Name() string { return "searxng" }

func (s *SearxNG) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if s.BaseURL == "" {
		return nil, errors.New("searxng: missing base url")
	}
	query, limit, err := checkQuery(query, limit)
	if err != nil {
		return nil, err
	}
	endpoint, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("searxng base url: %w", err)
	}
	if !strings.HasSuffix(endpoint.Path, "/search") {
		endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/search"
	}
	params := url.Values{
		"q":          {query},
		"format":     {"json"},
		"language":   {"auto"},
		"safesearch": {"1"},
		"categories": {"general"},
		"count":      {strconv.Itoa(limit)},
	}
	if s.APIKey != "" {
		params.Set("apikey", s.APIKey)
	}
	resp, err := request{
		provider: s.Name(),
		endpoint: endpoint,
		params:   params,
		client:   s.HTTPClient,
		timeout:  10 * time.Second,
		headers:  s.Headers,
	}.do(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parse searxng results: %w", err)
	}
	return body.results(limit, s.Name()), nil
}

type searxResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// results keeps hits with both a title and a URL, in ranking order, up to limit.
func (r searxResponse) results(limit int, source string) []Result {
	out := make([]Result, 0, min(limit, len(r.Results)))
	for _, hit := range r.Results {
		title, link := strings.TrimSpace(hit.Title), strings.TrimSpace(hit.URL)
		if title == "" || link == "" {
			continue
		}
		out = append(out, Result{Title: title, URL: link, Snippet: strings.TrimSpace(hit.Content), Source: source})
		if len(out) == limit {
			break
		}
	}
	return out
}
