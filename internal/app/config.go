package app

import "time"

// Search providers selectable with -provider.
const (
	ProviderDuckDuckGo = "duckduckgo"
	ProviderSearxNG    = "searxng"
	ProviderFile       = "file"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Search
	Provider        string
	DuckDuckGoURL   string
	SearxURL        string
	SearxKey        string
	FileSearchPath  string
	SearchDelay     time.Duration
	ResultsPerQuery int

	// Fetch
	MaxChars     int
	FetchTimeout time.Duration
	// UserAgent pins a single User-Agent; empty rotates browser profiles.
	UserAgent string
	SSLVerify bool

	// Behavior
	Verbose bool
}

// DefaultConfig returns the configuration used when no flag, file or
// environment variable says otherwise.
func DefaultConfig() Config {
	return Config{
		Provider:        ProviderDuckDuckGo,
		SearchDelay:     400 * time.Millisecond,
		ResultsPerQuery: 5,
		MaxChars:        15000,
		FetchTimeout:    30 * time.Second,
		SSLVerify:       true,
	}
}
