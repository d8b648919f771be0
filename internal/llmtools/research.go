package llmtools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hyperifyio/webresearch/internal/aggregate"
	"github.com/hyperifyio/webresearch/internal/fetch"
)

// Stable names of the research tools.
const (
	MultiSearchTool = "multi_search"
	FetchPagesTool  = "fetch_pages"
)

// ResearchDeps bundles what the research tools need.
type ResearchDeps struct {
	Search *aggregate.Runner
	Pages  *fetch.Pages
}

var multiSearchSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "queries": {
      "type": "array",
      "items": {"type": "string"},
      "description": "List of search queries to execute"
    },
    "results_per_query": {
      "type": "integer",
      "default": 5,
      "description": "Number of results per query (default: 5)"
    }
  },
  "required": ["queries"]
}`)

var fetchPagesSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "urls": {
      "type": "array",
      "items": {"type": "string"},
      "description": "List of URLs to fetch"
    },
    "max_chars": {
      "type": "integer",
      "default": 15000,
      "description": "Maximum characters per page (default: 15000)"
    },
    "timeout": {
      "type": "integer",
      "default": 30,
      "description": "Timeout in seconds per request (default: 30)"
    }
  },
  "required": ["urls"]
}`)

// NewResearchRegistry registers multi_search and fetch_pages. Both return
// indented JSON.
func NewResearchRegistry(deps ResearchDeps) (*Registry, error) {
	if deps.Search == nil || deps.Search.Provider == nil {
		return nil, errors.New("NewResearchRegistry: search runner is nil")
	}
	if deps.Pages == nil {
		return nil, errors.New("NewResearchRegistry: page fetcher is nil")
	}
	r := NewRegistry()

	if err := r.Register(ToolDefinition{
		StableName:   MultiSearchTool,
		SemVer:       "v1.0.0",
		Description:  "Search the web using multiple queries. Returns deduplicated URLs with titles and snippets.",
		JSONSchema:   multiSearchSchema,
		Capabilities: []string{"search"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			var in struct {
				Queries         []string `json:"queries"`
				ResultsPerQuery int      `json:"results_per_query"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid args: %w", err)
			}
			return marshalIndent(deps.Search.MultiSearch(ctx, in.Queries, in.ResultsPerQuery))
		},
	}); err != nil {
		return nil, err
	}

	if err := r.Register(ToolDefinition{
		StableName:   FetchPagesTool,
		SemVer:       "v1.0.0",
		Description:  "Fetch and extract content from multiple web pages in parallel.",
		JSONSchema:   fetchPagesSchema,
		Capabilities: []string{"fetch", "extract"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			var in struct {
				URLs     []string `json:"urls"`
				MaxChars int      `json:"max_chars"`
				Timeout  int      `json:"timeout"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid args: %w", err)
			}
			opts := fetch.Options{MaxChars: in.MaxChars, Timeout: time.Duration(in.Timeout) * time.Second}
			return marshalIndent(deps.Pages.FetchPages(ctx, in.URLs, opts))
		},
	}); err != nil {
		return nil, err
	}
	return r, nil
}

func marshalIndent(v any) (json.RawMessage, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return b, nil
}
