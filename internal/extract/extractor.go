package extract

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Strategy is one way of pulling main-content text out of an HTML page.
// Implementations report ok=false when they have nothing useful to offer so
// the next strategy can run.
type Strategy interface {
	Name() string
	Extract(html string) (text string, ok bool)
}

// StrategyFunc adapts a plain function into a Strategy.
type StrategyFunc struct {
	Label string
	Fn    func(html string) (string, bool)
}

func (f StrategyFunc) Name() string { return f.Label }
func (f StrategyFunc) Extract(html string) (string, bool) { return f.Fn(html) }

var placeholderPageURL = &url.URL{Scheme: "https", Host: "example.com", Path: "/"}

// ReadabilityStrategy applies Mozilla's readability algorithm and renders the
// article subtree the same way BoilerplateStrategy renders the body.
// PageURL is used to resolve relative links; a placeholder is used when nil.
type ReadabilityStrategy struct {
	PageURL *url.URL
}

func (ReadabilityStrategy) Name() string { return "readability" }

func (r ReadabilityStrategy) Extract(html string) (string, bool) {
	pageURL := r.PageURL
	if pageURL == nil {
		pageURL = placeholderPageURL
	}
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return "", false
	}
	if article.Node == nil {
		return "", false
	}
	text := nodeText(article.Node)
	if text == "" {
		return "", false
	}
	return text, true
}

// ForPage returns a copy of e whose readability strategies resolve links
// against pageURL. e is returned as is when pageURL does not parse as an
// absolute URL.
func (e *Extractor) ForPage(pageURL string) *Extractor {
	u, err := url.Parse(pageURL)
	if err != nil || !u.IsAbs() {
		return e
	}
	strategies := make([]Strategy, len(e.Strategies))
	for i, s := range e.Strategies {
		switch r := s.(type) {
		case ReadabilityStrategy:
			r.PageURL = u
			s = r
		case *ReadabilityStrategy:
			s = &ReadabilityStrategy{PageURL: u}
		}
		strategies[i] = s
	}
	return &Extractor{Strategies: strategies}
}
