package aggregate

import (
	"github.com/hyperifyio/webresearch/internal/search"
	"github.com/hyperifyio/webresearch/internal/urlnorm"
)

// Result is the merged outcome of several queries. URLs holds one original
// URL per canonical key in first-seen order; Snippets and Titles are keyed by
// those URLs; QueryResults keeps each query's own URLs before deduplication.
type Result struct {
	URLs         []string            `json:"urls"`
	Snippets     map[string]string   `json:"snippets"`
	Titles       map[string]string   `json:"titles"`
	QueryResults map[string][]string `json:"queryResults"`
}

// Empty returns a Result whose collections are non-nil and empty.
func Empty() Result {
	return Result{
		URLs:         []string{},
		Snippets:     map[string]string{},
		Titles:       map[string]string{},
		QueryResults: map[string][]string{},
	}
}

// Merge flattens per-query results in query order, deduplicates URLs by their
// canonical key and keeps the title and snippet of the first occurrence.
// groups[i] belongs to queries[i]; a repeated query string keeps the results
// of its last occurrence in QueryResults.
func Merge(queries []string, groups [][]search.Result) Result {
	out := Empty()
	firstSeen := map[string]search.Result{}
	var all []string
	for i, q := range queries {
		var group []search.Result
		if i < len(groups) {
			group = groups[i]
		}
		urls := make([]string, 0, len(group))
		for _, r := range group {
			if r.URL == "" {
				continue
			}
			if _, ok := firstSeen[r.URL]; !ok {
				firstSeen[r.URL] = r
			}
			urls = append(urls, r.URL)
			all = append(all, r.URL)
		}
		out.QueryResults[q] = urls
	}
	out.URLs = urlnorm.Deduplicate(all)
	for _, u := range out.URLs {
		r := firstSeen[u]
		out.Snippets[u] = r.Snippet
		out.Titles[u] = r.Title
	}
	return out
}
