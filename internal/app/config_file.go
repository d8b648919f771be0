package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags/env.
type FileConfig struct {
	Search struct {
		Provider        string `yaml:"provider" json:"provider"`
		Delay           string `yaml:"delay" json:"delay"`
		ResultsPerQuery int    `yaml:"resultsPerQuery" json:"resultsPerQuery"`
		File            string `yaml:"file" json:"file"`
	} `yaml:"search" json:"search"`

	Searx struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"searx" json:"searx"`

	DuckDuckGo struct {
		URL string `yaml:"url" json:"url"`
	} `yaml:"duckduckgo" json:"duckduckgo"`

	Fetch struct {
		MaxChars  int    `yaml:"maxChars" json:"maxChars"`
		Timeout   string `yaml:"timeout" json:"timeout"`
		UserAgent string `yaml:"userAgent" json:"userAgent"`
		SSLVerify *bool  `yaml:"sslVerify" json:"sslVerify"`
	} `yaml:"fetch" json:"fetch"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. Durations
// accept Go syntax ("400ms") or plain seconds ("30").
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if fc.Search.Provider != "" {
		cfg.Provider = fc.Search.Provider
	}
	if fc.Search.Delay != "" {
		d, err := parseDuration(fc.Search.Delay)
		if err != nil {
			return fmt.Errorf("config: search.delay: %w", err)
		}
		cfg.SearchDelay = d
	}
	if fc.Search.ResultsPerQuery > 0 {
		cfg.ResultsPerQuery = fc.Search.ResultsPerQuery
	}
	if fc.Search.File != "" {
		cfg.FileSearchPath = fc.Search.File
	}
	if fc.Searx.URL != "" {
		cfg.SearxURL = fc.Searx.URL
	}
	if fc.Searx.Key != "" {
		cfg.SearxKey = fc.Searx.Key
	}
	if fc.DuckDuckGo.URL != "" {
		cfg.DuckDuckGoURL = fc.DuckDuckGo.URL
	}
	if fc.Fetch.MaxChars > 0 {
		cfg.MaxChars = fc.Fetch.MaxChars
	}
	if fc.Fetch.Timeout != "" {
		d, err := parseDuration(fc.Fetch.Timeout)
		if err != nil {
			return fmt.Errorf("config: fetch.timeout: %w", err)
		}
		cfg.FetchTimeout = d
	}
	if fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if fc.Fetch.SSLVerify != nil {
		cfg.SSLVerify = *fc.Fetch.SSLVerify
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}

// ValidateConfig performs minimal validation of the resolved settings.
func ValidateConfig(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderDuckDuckGo, "":
	case ProviderSearxNG:
		if strings.TrimSpace(cfg.SearxURL) == "" {
			return errors.New("config: searx.url is required for the searxng provider (or set SEARX_URL)")
		}
	case ProviderFile:
		if strings.TrimSpace(cfg.FileSearchPath) == "" {
			return errors.New("config: search.file is required for the file provider (or set SEARCH_FILE)")
		}
	default:
		return fmt.Errorf("config: unknown search provider %q", cfg.Provider)
	}
	if cfg.SearchDelay < 0 || cfg.FetchTimeout < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.MaxChars < 0 || cfg.ResultsPerQuery < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}

// parseDuration accepts "1.5s"-style durations and bare numbers of seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
