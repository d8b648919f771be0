package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removedTags are dropped together with everything inside them.
var removedTags = []string{
	"script", "style", "nav", "footer", "header", "aside",
	"noscript", "iframe", "svg", "form", "button",
}

// boilerplateKeywords mark an element as chrome when found anywhere in its
// class or id, compared case-insensitively.
var boilerplateKeywords = []string{
	"nav", "navbar", "navigation", "menu", "sidebar", "footer", "header",
	"advertisement", "ad", "ads", "social", "share", "comment", "comments", "related",
}

var removedSelector = strings.Join(removedTags, ", ")

// BoilerplateStrategy strips page chrome and returns the remaining body
// text, one text node per line.
type BoilerplateStrategy struct{}

func (BoilerplateStrategy) Name() string { return "boilerplate" }

func (BoilerplateStrategy) Extract(input string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", false
	}
	doc.Find(removedSelector).Remove()
	// html and body are the text root and are never treated as chrome.
	doc.Find("[class], [id]").Not("html, body").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isBoilerplateContainer(s.Get(0))
	}).Remove()

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", false
	}
	text := nodeText(body.Get(0))
	if text == "" {
		return "", false
	}
	return text, true
}

// blockTags start and end a paragraph in extracted text.
var blockTags = map[string]bool{
	"address": true, "article": true, "blockquote": true, "dd": true, "div": true,
	"dl": true, "dt": true, "figcaption": true, "figure": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "hr": true,
	"main": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tr": true, "ul": true,
}

// nodeText renders the text below n one text node per line, with a blank
// line around block elements. The result is trimmed.
func nodeText(n *html.Node) string {
	var lines []string
	collectText(&lines, n)
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// collectText appends every non-blank text node below n, trimmed. An empty
// entry marks a paragraph break and is never repeated.
func collectText(lines *[]string, n *html.Node) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*lines = append(*lines, t)
		}
		return
	}
	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		paragraphBreak(lines)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(lines, c)
	}
	if block {
		paragraphBreak(lines)
	}
}

func paragraphBreak(lines *[]string) {
	if l := len(*lines); l > 0 && (*lines)[l-1] != "" {
		*lines = append(*lines, "")
	}
}

// isBoilerplateContainer reports whether the element's class or id mentions
// one of the boilerplate keywords.
func isBoilerplateContainer(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" {
			continue
		}
		if containsAny(strings.ToLower(attr.Val), boilerplateKeywords) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
