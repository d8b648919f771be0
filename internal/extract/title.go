package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

// ExtractTitle returns the first non-blank of the <title> text, the first
// <h1> text and the og:title meta content. ok is false when none is present
// or the document cannot be parsed.
func ExtractTitle(html string) (title string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			title, ok = "", false
		}
	}()
	if strings.TrimSpace(html) == "" {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t, true
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t, true
	}
	if t := openGraphTitle(html, doc); t != "" {
		return t, true
	}
	return "", false
}

func openGraphTitle(html string, doc *goquery.Document) string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err == nil {
		if t := strings.TrimSpace(og.Title); t != "" {
			return t
		}
	}
	// The opengraph tokenizer stops at <body>; some pages put meta tags later.
	content, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	return strings.TrimSpace(content)
}
