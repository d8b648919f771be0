package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/webresearch/internal/headers"
)

// DefaultDuckDuckGoURL is the JavaScript-free results page.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo implements Provider by scraping the HTML results page.
type DuckDuckGo struct {
	// BaseURL defaults to DefaultDuckDuckGoURL.
	BaseURL    string
	HTTPClient *http.Client
	// Headers defaults to headers.Default().
	Headers *headers.Pool
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	query, limit, err := checkQuery(query, limit)
	if err != nil {
		return nil, err
	}
	base := d.BaseURL
	if base == "" {
		base = DefaultDuckDuckGoURL
	}
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	resp, err := request{
		provider: d.Name(),
		endpoint: endpoint,
		params:   url.Values{"q": {query}},
		client:   d.HTTPClient,
		timeout:  15 * time.Second,
		headers:  d.Headers,
	}.do(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo results: %w", err)
	}
	return parseDuckDuckGo(doc, limit, d.Name()), nil
}

func parseDuckDuckGo(doc *goquery.Document, limit int, source string) []Result {
	out := make([]Result, 0, limit)
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		target, ok := unwrapDuckDuckGoLink(href)
		title := strings.TrimSpace(link.Text())
		if !ok || title == "" {
			return true
		}
		out = append(out, Result{
			Title:   title,
			URL:     target,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
			Source:  source,
		})
		return len(out) < limit
	})
	return out
}

// unwrapDuckDuckGoLink resolves the /l/?uddg= redirect wrapper to the target
// URL. Ad redirects report ok=false.
func unwrapDuckDuckGoLink(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if strings.Contains(href, "duckduckgo.com/y.js") || u.Query().Has("ad_domain") {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if (host == "duckduckgo.com" || host == "html.duckduckgo.com" || host == "") && strings.HasPrefix(u.Path, "/l/") {
		target := u.Query().Get("uddg")
		if target == "" {
			return "", false
		}
		return target, true
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return href, true
}
