package app

import (
	"flag"
	"fmt"
)

// flagSetters copies one flag's value from the parsed flag config onto the
// resolved config. Keys are flag names.
var flagSetters = map[string]func(dst *Config, src Config){
	"provider":        func(d *Config, s Config) { d.Provider = s.Provider },
	"ddg.url":         func(d *Config, s Config) { d.DuckDuckGoURL = s.DuckDuckGoURL },
	"searx.url":       func(d *Config, s Config) { d.SearxURL = s.SearxURL },
	"searx.key":       func(d *Config, s Config) { d.SearxKey = s.SearxKey },
	"search.file":     func(d *Config, s Config) { d.FileSearchPath = s.FileSearchPath },
	"search.delay":    func(d *Config, s Config) { d.SearchDelay = s.SearchDelay },
	"search.perQuery": func(d *Config, s Config) { d.ResultsPerQuery = s.ResultsPerQuery },
	"fetch.maxChars":  func(d *Config, s Config) { d.MaxChars = s.MaxChars },
	"fetch.timeout":   func(d *Config, s Config) { d.FetchTimeout = s.FetchTimeout },
	"fetch.userAgent": func(d *Config, s Config) { d.UserAgent = s.UserAgent },
	"ssl.verify":      func(d *Config, s Config) { d.SSLVerify = s.SSLVerify },
	"v":               func(d *Config, s Config) { d.Verbose = s.Verbose },
}

// BindFlags registers the global configuration flags on fs, writing into cfg.
// Defaults shown in -help come from DefaultConfig.
func BindFlags(fs *flag.FlagSet, cfg *Config) {
	def := DefaultConfig()
	fs.StringVar(&cfg.Provider, "provider", def.Provider, "Search provider: duckduckgo, searxng or file")
	fs.StringVar(&cfg.DuckDuckGoURL, "ddg.url", def.DuckDuckGoURL, "Override the DuckDuckGo HTML endpoint")
	fs.StringVar(&cfg.SearxURL, "searx.url", def.SearxURL, "SearxNG base URL")
	fs.StringVar(&cfg.SearxKey, "searx.key", def.SearxKey, "SearxNG API key (optional)")
	fs.StringVar(&cfg.FileSearchPath, "search.file", def.FileSearchPath, "Path to JSON file for offline file-based search provider")
	fs.DurationVar(&cfg.SearchDelay, "search.delay", def.SearchDelay, "Pause between consecutive search queries")
	fs.IntVar(&cfg.ResultsPerQuery, "search.perQuery", def.ResultsPerQuery, "Default results per query")
	fs.IntVar(&cfg.MaxChars, "fetch.maxChars", def.MaxChars, "Default maximum characters per fetched page")
	fs.DurationVar(&cfg.FetchTimeout, "fetch.timeout", def.FetchTimeout, "Default per-page fetch timeout")
	fs.StringVar(&cfg.UserAgent, "fetch.userAgent", def.UserAgent, "Fixed User-Agent (default rotates browser profiles)")
	fs.BoolVar(&cfg.SSLVerify, "ssl.verify", def.SSLVerify, "Verify TLS certificates")
	fs.BoolVar(&cfg.Verbose, "v", def.Verbose, "Verbose logging")
}

// Resolve layers configuration: defaults, then the config file (if any), then
// environment overrides, then flags explicitly set on fs. flagged must be the
// Config that BindFlags wrote into.
func Resolve(fs *flag.FlagSet, flagged Config, configPath string) (Config, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", configPath, err)
		}
		if err := ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, err
		}
	}
	ApplyEnvOverrides(&cfg)
	fs.Visit(func(f *flag.Flag) {
		if set, ok := flagSetters[f.Name]; ok {
			set(&cfg, flagged)
		}
	})
	if err := ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
