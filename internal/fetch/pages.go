package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/webresearch/internal/extract"
)

const (
	// DefaultMaxChars bounds the text kept per page.
	DefaultMaxChars = extract.DefaultMaxChars
	// DefaultTimeout bounds each page request.
	DefaultTimeout = 30 * time.Second
)

// Options tune a FetchPages batch. Zero values select the defaults.
type Options struct {
	MaxChars int
	Timeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxChars <= 0 {
		o.MaxChars = DefaultMaxChars
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Result is the outcome of a batch. Contents and Errors partition the
// distinct input URLs; Titles holds entries only for pages with a title.
type Result struct {
	Contents     map[string]string `json:"contents"`
	Titles       map[string]string `json:"titles"`
	Errors       map[string]string `json:"errors"`
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
}

// Pages fetches batches of URLs through a Client and extracts their text.
type Pages struct {
	Client *Client
	// Extractor defaults to extract.Default().
	Extractor *extract.Extractor
}

type pageOutcome struct {
	url     string
	content string
	title   string
	err     error
}

// FetchPages fetches every distinct URL concurrently, each under its own
// timeout. A failing URL is recorded in Errors and never affects the others.
func (p *Pages) FetchPages(ctx context.Context, urls []string, opts Options) Result {
	res := Result{
		Contents: map[string]string{},
		Titles:   map[string]string{},
		Errors:   map[string]string{},
	}
	if len(urls) == 0 {
		return res
	}
	opts = opts.withDefaults()
	distinct := uniqueStrings(urls)
	log.Info().Int("urls", len(distinct)).Int("max_chars", opts.MaxChars).Dur("timeout", opts.Timeout).Msg("fetching pages")

	outcomes := make([]pageOutcome, len(distinct))
	var g errgroup.Group
	for i, u := range distinct {
		g.Go(func() error {
			outcomes[i] = p.fetchOne(ctx, u, opts)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			res.Errors[o.url] = o.err.Error()
			log.Warn().Str("url", o.url).Err(o.err).Msg("fetch failed")
			continue
		}
		res.Contents[o.url] = o.content
		if o.title != "" {
			res.Titles[o.url] = o.title
		}
	}
	res.SuccessCount = len(res.Contents)
	res.ErrorCount = len(res.Errors)
	log.Info().Int("success", res.SuccessCount).Int("errors", res.ErrorCount).Msg("fetch complete")
	return res
}

func (p *Pages) fetchOne(ctx context.Context, url string, opts Options) (out pageOutcome) {
	out.url = url
	defer func() {
		if r := recover(); r != nil {
			out = pageOutcome{url: url, err: fmt.Errorf("Unexpected error: %v", r)}
		}
	}()
	client := p.Client
	if client == nil {
		client = &Client{}
	}
	page, err := client.get(ctx, url, opts.Timeout)
	if err != nil {
		out.err = err
		return out
	}
	ex := p.Extractor
	if ex == nil {
		ex = extract.Default()
	}
	doc := ex.ForPage(page.FinalURL).FromHTML(page.Body, opts.MaxChars)
	out.content, out.title = doc.Text, doc.Title
	return out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
