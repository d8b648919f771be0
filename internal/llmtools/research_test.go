package llmtools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/webresearch/internal/aggregate"
	"github.com/hyperifyio/webresearch/internal/extract"
	"github.com/hyperifyio/webresearch/internal/fetch"
	"github.com/hyperifyio/webresearch/internal/search"
)

type stubProvider struct {
	results map[string][]search.Result
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Search(_ context.Context, q string, _ int) ([]search.Result, error) {
	return s.results[q], nil
}

func newResearchRegistry(t *testing.T, p search.Provider) *Registry {
	t.Helper()
	reg, err := NewResearchRegistry(ResearchDeps{
		Search: &aggregate.Runner{Provider: p},
		Pages:  &fetch.Pages{Client: &fetch.Client{}, Extractor: extract.Default()},
	})
	require.NoError(t, err)
	return reg
}

func TestNewResearchRegistry_RequiresDeps(t *testing.T) {
	_, err := NewResearchRegistry(ResearchDeps{})
	assert.Error(t, err)
	_, err = NewResearchRegistry(ResearchDeps{Search: aggregate.NewRunner(stubProvider{})})
	assert.Error(t, err)
}

func TestNewResearchRegistry_Names(t *testing.T) {
	reg := newResearchRegistry(t, stubProvider{})
	assert.Equal(t, []string{FetchPagesTool, MultiSearchTool}, reg.Names())
}

func TestMultiSearchTool_ReturnsIndentedJSON(t *testing.T) {
	reg := newResearchRegistry(t, stubProvider{results: map[string][]search.Result{
		"golang": {
			{Title: "Go", URL: "https://go.dev/", Snippet: "The Go language"},
			{Title: "Go again", URL: "https://www.go.dev?utm_source=feed"},
		},
	}})
	out, err := reg.Call(context.Background(), MultiSearchTool, json.RawMessage(`{"queries":["golang"],"results_per_query":3}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{\n  \""), "expected two-space indentation: %s", out)

	var got aggregate.Result
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []string{"https://go.dev/"}, got.URLs)
	assert.Equal(t, "Go", got.Titles["https://go.dev/"])
	assert.Len(t, got.QueryResults["golang"], 2)
}

func TestMultiSearchTool_RejectsMissingQueries(t *testing.T) {
	reg := newResearchRegistry(t, stubProvider{})
	_, err := reg.Call(context.Background(), MultiSearchTool, json.RawMessage(`{}`))
	assert.ErrorContains(t, err, "queries")
}

func TestFetchPagesTool_PartitionsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Hello Page</title></head><body><p>Hello from the test server.</p></body></html>`))
	}))
	defer srv.Close()

	reg := newResearchRegistry(t, stubProvider{})
	args := `{"urls":["` + srv.URL + `/ok","` + srv.URL + `/missing"],"max_chars":500,"timeout":5}`
	out, err := reg.Call(context.Background(), FetchPagesTool, json.RawMessage(args))
	require.NoError(t, err)

	var got fetch.Result
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, 1, got.SuccessCount)
	assert.Equal(t, 1, got.ErrorCount)
	assert.Contains(t, got.Contents[srv.URL+"/ok"], "Hello from the test server.")
	assert.Equal(t, "Hello Page", got.Titles[srv.URL+"/ok"])
	assert.Equal(t, "HTTP 404", got.Errors[srv.URL+"/missing"])
}

func TestFetchPagesTool_RejectsWrongTypes(t *testing.T) {
	reg := newResearchRegistry(t, stubProvider{})
	_, err := reg.Call(context.Background(), FetchPagesTool, json.RawMessage(`{"urls":"https://example.com"}`))
	assert.Error(t, err)
	_, err = reg.Call(context.Background(), FetchPagesTool, json.RawMessage(`{"urls":[],"timeout":1.5}`))
	assert.Error(t, err)
}
