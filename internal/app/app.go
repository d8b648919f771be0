package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webresearch/internal/aggregate"
	"github.com/hyperifyio/webresearch/internal/extract"
	"github.com/hyperifyio/webresearch/internal/fetch"
	"github.com/hyperifyio/webresearch/internal/headers"
	"github.com/hyperifyio/webresearch/internal/llmtools"
	"github.com/hyperifyio/webresearch/internal/mcpserver"
	"github.com/hyperifyio/webresearch/internal/search"
)

// App wires the search runner, page fetcher and tool registry from a Config.
type App struct {
	cfg      Config
	http     *http.Client
	provider search.Provider
	runner   *aggregate.Runner
	pages    *fetch.Pages
	registry *llmtools.Registry
}

// New validates cfg and builds the application graph. It performs no network
// I/O.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	hc := newHighThroughputHTTPClient(cfg.SSLVerify)
	pool := headers.Default()
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		pool = headers.Fixed(ua)
	}

	provider, err := newProvider(cfg, hc, pool)
	if err != nil {
		return nil, err
	}
	runner := &aggregate.Runner{Provider: provider, Delay: cfg.SearchDelay}
	pages := &fetch.Pages{
		Client:    &fetch.Client{HTTPClient: hc, Headers: pool},
		Extractor: extract.Default(),
	}
	reg, err := llmtools.NewResearchRegistry(llmtools.ResearchDeps{Search: runner, Pages: pages})
	if err != nil {
		return nil, fmt.Errorf("init tools: %w", err)
	}

	log.Debug().
		Str("provider", provider.Name()).
		Dur("search_delay", cfg.SearchDelay).
		Int("max_chars", cfg.MaxChars).
		Dur("fetch_timeout", cfg.FetchTimeout).
		Bool("ssl_verify", cfg.SSLVerify).
		Msg("app configured")

	return &App{cfg: cfg, http: hc, provider: provider, runner: runner, pages: pages, registry: reg}, nil
}

func newProvider(cfg Config, hc *http.Client, pool *headers.Pool) (search.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderDuckDuckGo, "":
		return &search.DuckDuckGo{BaseURL: cfg.DuckDuckGoURL, HTTPClient: hc, Headers: pool}, nil
	case ProviderSearxNG:
		return &search.SearxNG{BaseURL: cfg.SearxURL, APIKey: cfg.SearxKey, HTTPClient: hc, Headers: pool}, nil
	case ProviderFile:
		return &search.FileProvider{Path: cfg.FileSearchPath}, nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}

// Close releases idle connections.
func (a *App) Close() {
	a.http.CloseIdleConnections()
}

// Registry exposes the research tools.
func (a *App) Registry() *llmtools.Registry { return a.registry }

// Serve runs the MCP server on stdio until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	server, err := mcpserver.New(a.registry, BuildVersion)
	if err != nil {
		return err
	}
	log.Info().Str("version", BuildVersion).Strs("tools", a.registry.Names()).Msg("serving research tools")
	return mcpserver.Serve(ctx, server)
}

// Search runs multi_search through the registry, applying the configured
// default results per query when perQuery is not positive.
func (a *App) Search(ctx context.Context, queries []string, perQuery int) (json.RawMessage, error) {
	if perQuery <= 0 {
		perQuery = a.cfg.ResultsPerQuery
	}
	args, err := json.Marshal(map[string]any{"queries": nonNil(queries), "results_per_query": perQuery})
	if err != nil {
		return nil, err
	}
	return a.registry.Call(ctx, llmtools.MultiSearchTool, args)
}

// Fetch runs fetch_pages through the registry. Zero options fall back to the
// configured defaults.
func (a *App) Fetch(ctx context.Context, urls []string, opts fetch.Options) (fetch.Result, error) {
	if opts.MaxChars <= 0 {
		opts.MaxChars = a.cfg.MaxChars
	}
	if opts.Timeout <= 0 {
		opts.Timeout = a.cfg.FetchTimeout
	}
	seconds := int(opts.Timeout.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	args, err := json.Marshal(map[string]any{"urls": nonNil(urls), "max_chars": opts.MaxChars, "timeout": seconds})
	if err != nil {
		return fetch.Result{}, err
	}
	raw, err := a.registry.Call(ctx, llmtools.FetchPagesTool, args)
	if err != nil {
		return fetch.Result{}, err
	}
	var res fetch.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return fetch.Result{}, fmt.Errorf("decode fetch result: %w", err)
	}
	return res, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Tool definition export formats.
const (
	FormatMCP    = "mcp"
	FormatOpenAI = "openai"
)

type mcpToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ToolDefinitions renders the registered tools as indented JSON, either in
// MCP tools/list shape or as OpenAI function-calling tools.
func (a *App) ToolDefinitions(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMCP, "":
		defs := make([]mcpToolDefinition, 0, len(a.registry.Names()))
		for _, name := range a.registry.Names() {
			def, _ := a.registry.Get(name)
			defs = append(defs, mcpToolDefinition{Name: def.StableName, Description: def.Description, InputSchema: def.JSONSchema})
		}
		return json.MarshalIndent(defs, "", "  ")
	case FormatOpenAI:
		return json.MarshalIndent(llmtools.EncodeTools(a.registry.Specs()), "", "  ")
	default:
		return nil, fmt.Errorf("unknown tools format %q (want mcp or openai)", format)
	}
}
