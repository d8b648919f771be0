package llmtools

import (
	"encoding/json"
	"errors"
	"strconv"

	openai "github.com/sashabaranov/go-openai"
)

// ToolSpec captures a single callable tool/function exposed to a model host.
// JSONSchema must be a valid JSON Schema object encoded as raw JSON.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	JSONSchema  json.RawMessage `json:"json_schema"`
}

// EncodeTools converts ToolSpec entries into an OpenAI-compatible tools
// array for hosts that use function calling instead of MCP.
func EncodeTools(specs []ToolSpec) []openai.Tool {
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.JSONSchema,
			},
		})
	}
	return out
}

// Minimal JSON Schema validator for a restricted subset of keywords used by our
// tool argument contracts. This is not a full JSON Schema implementation; it
// supports only: type (object, array, string, integer, number, boolean),
// properties, required, additionalProperties (boolean), items (single schema),
// and recursively validates nested objects/arrays.
// Returns nil when value conforms to schema; otherwise an error describing the
// first mismatch found.
func validateAgainstSchema(value any, schema json.RawMessage) error {
	if len(schema) == 0 {
		return nil
	}
	var s map[string]any
	if err := json.Unmarshal(schema, &s); err != nil {
		return err
	}
	getString := func(m map[string]any, k string) string {
		if v, ok := m[k]; ok {
			if str, ok := v.(string); ok {
				return str
			}
		}
		return ""
	}
	asFloat := func(v any) (float64, bool) {
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		default:
			return 0, false
		}
	}

	expectedType := getString(s, "type")
	switch expectedType {
	case "object", "":
		// objects are default if type omitted per our internal use
		obj, ok := value.(map[string]any)
		if !ok {
			return errors.New("schema: expected object")
		}
		if req, ok := s["required"].([]any); ok {
			for _, r := range req {
				if name, ok := r.(string); ok {
					if _, present := obj[name]; !present {
						return errors.New("schema: missing required field: " + name)
					}
				}
			}
		}
		var props map[string]any
		if p, ok := s["properties"].(map[string]any); ok {
			props = p
		}
		for k, v := range obj {
			if props != nil {
				if raw, ok := props[k]; ok {
					b, _ := json.Marshal(raw)
					if err := validateAgainstSchema(v, b); err != nil {
						return errors.New("schema: property " + k + ": " + err.Error())
					}
					continue
				}
			}
			// additionalProperties: default true; if explicitly false, reject unknowns
			if ap, ok := s["additionalProperties"].(bool); ok && !ap {
				return errors.New("schema: additional property not allowed: " + k)
			}
		}
		return nil
	case "array":
		arr, ok := value.([]any)
		if !ok {
			return errors.New("schema: expected array")
		}
		if items, ok := s["items"]; ok {
			b, _ := json.Marshal(items)
			for i, elem := range arr {
				if err := validateAgainstSchema(elem, b); err != nil {
					return errors.New("schema: items[" + strconv.Itoa(i) + "]: " + err.Error())
				}
			}
		}
		return nil
	case "string":
		if _, ok := value.(string); !ok {
			return errors.New("schema: expected string")
		}
		return nil
	case "integer":
		if f, ok := asFloat(value); !ok || f != float64(int64(f)) {
			return errors.New("schema: expected integer")
		}
		return nil
	case "number":
		if _, ok := asFloat(value); !ok {
			return errors.New("schema: expected number")
		}
		return nil
	case "boolean":
		if _, ok := value.(bool); !ok {
			return errors.New("schema: expected boolean")
		}
		return nil
	default:
		// unsupported types pass through for now
		return nil
	}
}
