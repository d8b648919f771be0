package app

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file so env wins over the file; explicit
// flags are applied last by Resolve.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("WEBRESEARCH_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("DUCKDUCKGO_URL"); v != "" {
		cfg.DuckDuckGoURL = v
	}
	// Support both SEARX_URL and SEARXNG_URL; prefer SEARX_URL if set
	if v := firstEnv("SEARX_URL", "SEARXNG_URL"); v != "" {
		cfg.SearxURL = v
	}
	if v := firstEnv("SEARX_KEY", "SEARXNG_KEY"); v != "" {
		cfg.SearxKey = v
	}
	if v := os.Getenv("SEARCH_FILE"); v != "" {
		cfg.FileSearchPath = v
	}
	if s := os.Getenv("SEARCH_DELAY"); s != "" {
		if d, err := parseDuration(s); err == nil {
			cfg.SearchDelay = d
		}
	}
	if n, ok := envInt("RESULTS_PER_QUERY"); ok {
		cfg.ResultsPerQuery = n
	}

	if n, ok := envInt("FETCH_MAX_CHARS"); ok {
		cfg.MaxChars = n
	}
	if s := os.Getenv("FETCH_TIMEOUT"); s != "" {
		if d, err := parseDuration(s); err == nil {
			cfg.FetchTimeout = d
		}
	}
	if v := os.Getenv("FETCH_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.SSLVerify, "SSL_VERIFY")
	setBool(&cfg.Verbose, "VERBOSE")
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
