package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileProvider serves results from a local JSON file for offline runs and
// tests. The file is an array of {"title", "url", "snippet"} objects; a
// result matches when the query appears in its title or snippet, and every
// word of the query is tried when the whole phrase matches nothing.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Result
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := f.match(raw, limit, func(r Result) bool { return matchesText(r, q) })
	if len(out) == 0 && strings.Contains(q, " ") {
		words := strings.Fields(q)
		out = f.match(raw, limit, func(r Result) bool {
			for _, w := range words {
				if matchesText(r, w) {
					return true
				}
			}
			return false
		})
	}
	return out, nil
}

func (f *FileProvider) match(raw []Result, limit int, keep func(Result) bool) []Result {
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" || r.Title == "" || !keep(r) {
			continue
		}
		r.Source = f.Name()
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func matchesText(r Result, q string) bool {
	return q == "" || strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Snippet), q)
}
