package aggregate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webresearch/internal/search"
)

const (
	// DefaultResultsPerQuery applies when callers pass a non-positive count.
	DefaultResultsPerQuery = 5
	// DefaultDelay separates consecutive queries to the same provider.
	DefaultDelay = 400 * time.Millisecond
)

// Runner executes queries one after another against a single provider,
// pausing for Delay between the end of one query and the start of the next.
type Runner struct {
	Provider search.Provider
	// Delay is fixed; it does not adapt to latency or failures. Zero disables it.
	Delay time.Duration
}

// NewRunner returns a Runner using DefaultDelay.
func NewRunner(p search.Provider) *Runner {
	return &Runner{Provider: p, Delay: DefaultDelay}
}

// MultiSearch runs queries in order and merges their results. A failing
// query contributes no URLs; cancellation of ctx stops the queue and the
// remaining queries contribute none either.
func (r *Runner) MultiSearch(ctx context.Context, queries []string, perQuery int) Result {
	if len(queries) == 0 {
		return Empty()
	}
	if perQuery <= 0 {
		perQuery = DefaultResultsPerQuery
	}
	log.Info().Int("queries", len(queries)).Int("per_query", perQuery).Str("provider", r.Provider.Name()).Msg("multi_search")

	groups := make([][]search.Result, len(queries))
	for i, q := range queries {
		if i > 0 {
			if err := sleep(ctx, r.Delay); err != nil {
				log.Warn().Err(err).Int("skipped", len(queries)-i).Msg("search queue cancelled")
				break
			}
		}
		results, err := r.Provider.Search(ctx, q, perQuery)
		if err != nil {
			log.Warn().Str("query", q).Err(err).Msg("search failed")
			continue
		}
		if len(results) > perQuery {
			results = results[:perQuery]
		}
		groups[i] = results
	}

	out := Merge(queries, groups)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	log.Info().Int("total", total).Int("unique", len(out.URLs)).Msg("multi_search complete")
	return out
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
