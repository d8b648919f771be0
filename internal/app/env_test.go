package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// LoadEnvFiles reads KEY=VALUE pairs and populates the process environment.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nexport BAR=\"beta\"\nmalformed\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestLoadEnvFiles_KeepsProcessEnvironment(t *testing.T) {
	t.Setenv("KEEP_ME", "from-shell")
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte("KEEP_ME=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFiles(p); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("KEEP_ME"); got != "from-shell" {
		t.Fatalf("KEEP_ME=%q, want from-shell", got)
	}
}

func TestApplyEnvOverrides_FromEnv(t *testing.T) {
	t.Setenv("WEBRESEARCH_PROVIDER", "searxng")
	t.Setenv("SEARX_URL", "")
	t.Setenv("SEARXNG_URL", "http://searxng.example")
	t.Setenv("SEARCH_DELAY", "1.5")
	t.Setenv("RESULTS_PER_QUERY", "8")
	t.Setenv("FETCH_MAX_CHARS", "not-a-number")
	t.Setenv("FETCH_TIMEOUT", "45s")
	t.Setenv("SSL_VERIFY", "false")
	t.Setenv("VERBOSE", "yes")

	cfg := DefaultConfig()
	ApplyEnvOverrides(&cfg)
	if cfg.Provider != ProviderSearxNG {
		t.Fatalf("Provider=%q, want searxng", cfg.Provider)
	}
	if cfg.SearxURL != "http://searxng.example" {
		t.Fatalf("SearxURL=%q, want fallback from SEARXNG_URL", cfg.SearxURL)
	}
	if cfg.SearchDelay != 1500*time.Millisecond {
		t.Fatalf("SearchDelay=%v, want 1.5s", cfg.SearchDelay)
	}
	if cfg.ResultsPerQuery != 8 {
		t.Fatalf("ResultsPerQuery=%d, want 8", cfg.ResultsPerQuery)
	}
	if cfg.MaxChars != 15000 {
		t.Fatalf("invalid FETCH_MAX_CHARS should be ignored, got %d", cfg.MaxChars)
	}
	if cfg.FetchTimeout != 45*time.Second {
		t.Fatalf("FetchTimeout=%v, want 45s", cfg.FetchTimeout)
	}
	if cfg.SSLVerify || !cfg.Verbose {
		t.Fatalf("boolean overrides not applied: %+v", cfg)
	}
}
