package llmtools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ToolHandler executes a tool using the provided raw JSON arguments and returns
// a raw JSON result or an error. Arguments have already been checked against
// the tool's schema when the handler is reached through Registry.Call.
type ToolHandler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// ToolDefinition describes a callable tool with stable identity and metadata.
// StableName must be lowercase snake_case and never change across versions.
// SemVer follows semantic versioning (allowing a leading 'v').
type ToolDefinition struct {
	StableName   string          // stable, lowercase snake_case identifier
	SemVer       string          // semantic version (e.g., v1.2.3)
	Description  string          // concise, imperative description
	JSONSchema   json.RawMessage // JSON Schema for arguments
	Capabilities []string        // capability tags (e.g., "search", "fetch")
	Handler      ToolHandler     // function implementing the tool
}

// ToolMeta is a minimal, serializable view for listings and logs.
type ToolMeta struct {
	StableName   string   `json:"stable_name"`
	SemVer       string   `json:"semver"`
	Capabilities []string `json:"capabilities"`
}

// ErrUnknownTool is returned by Call for names that were never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Registry holds the set of available tools keyed by stable name.
type Registry struct {
	nameToDef map[string]ToolDefinition
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{nameToDef: make(map[string]ToolDefinition)}
}

var (
	nameRe   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	semverRe = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)
)

// Register adds or replaces a tool definition by stable name after validation.
func (r *Registry) Register(def ToolDefinition) error {
	if def.StableName == "" || !nameRe.MatchString(def.StableName) {
		return fmt.Errorf("invalid stable name %q: must be lowercase snake_case starting with a letter", def.StableName)
	}
	if def.SemVer == "" || !semverRe.MatchString(def.SemVer) {
		return fmt.Errorf("invalid semver %q: must follow semantic versioning", def.SemVer)
	}
	if len(def.JSONSchema) == 0 || !isJSONObject(def.JSONSchema) {
		return errors.New("json schema must be a non-empty JSON object")
	}
	if def.Handler == nil {
		return errors.New("handler must not be nil")
	}
	cleanedCaps := make([]string, 0, len(def.Capabilities))
	for _, c := range def.Capabilities {
		c = strings.TrimSpace(c)
		if c != "" {
			cleanedCaps = append(cleanedCaps, c)
		}
	}
	def.Capabilities = cleanedCaps
	if r.nameToDef == nil {
		r.nameToDef = make(map[string]ToolDefinition)
	}
	r.nameToDef[def.StableName] = def
	return nil
}

// Names returns the registered stable names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nameToDef))
	for name := range r.nameToDef {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns OpenAI-compatible tool specs derived from the registered tools.
// The order is deterministic (sorted by stable name).
func (r *Registry) Specs() []ToolSpec {
	names := r.Names()
	specs := make([]ToolSpec, 0, len(names))
	for _, name := range names {
		def := r.nameToDef[name]
		// Include version hint in description tail to aid humans; name remains stable.
		description := def.Description
		if def.SemVer != "" {
			description = fmt.Sprintf("%s (version %s)", description, def.SemVer)
		}
		specs = append(specs, ToolSpec{
			Name:        def.StableName,
			Description: description,
			JSONSchema:  def.JSONSchema,
		})
	}
	return specs
}

// Get returns a tool definition by stable name if present.
func (r *Registry) Get(stableName string) (ToolDefinition, bool) {
	def, ok := r.nameToDef[stableName]
	return def, ok
}

// Catalog returns a deterministic, sorted slice of ToolMeta.
func (r *Registry) Catalog() []ToolMeta {
	names := r.Names()
	out := make([]ToolMeta, 0, len(names))
	for _, name := range names {
		def := r.nameToDef[name]
		out = append(out, ToolMeta{
			StableName:   def.StableName,
			SemVer:       def.SemVer,
			Capabilities: append([]string(nil), def.Capabilities...),
		})
	}
	return out
}

// Call dispatches a tool by name. Unknown names wrap ErrUnknownTool; arguments
// that are not a JSON object or violate the tool's schema are rejected before
// the handler runs. Missing arguments are treated as {}.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	def, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage(`{}`)
	}
	var value any
	if err := json.Unmarshal(args, &value); err != nil {
		return nil, fmt.Errorf("%s: invalid arguments: %w", name, err)
	}
	if err := validateAgainstSchema(value, def.JSONSchema); err != nil {
		return nil, fmt.Errorf("%s: invalid arguments: %w", name, err)
	}

	start := time.Now()
	result, err := def.Handler(ctx, args)
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("stage", "tool").
		Str("tool", name).
		Str("args_hash", sha256Hex(args)).
		Int("args_bytes", len(args)).
		Int("result_bytes", len(result)).
		Bool("ok", err == nil).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("tool call")
	return result, err
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// isJSONObject returns true if the raw JSON represents a JSON object.
func isJSONObject(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	_, ok := v.(map[string]interface{})
	return ok
}
