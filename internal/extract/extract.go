// Package extract turns fetched HTML into bounded, whitespace-normalized
// plain text and picks a human-readable title for the page.
package extract

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// DefaultMaxChars bounds extracted text when callers pass a non-positive limit.
const DefaultMaxChars = 15000

// Document is a simplified representation of extracted page content.
// Title is empty when the page carries no usable title.
type Document struct {
	Title string
	Text  string
}

// Extractor runs its strategies in order and keeps the first usable text.
type Extractor struct {
	Strategies []Strategy
}

// New returns an Extractor that tries strategies in the given order.
func New(strategies ...Strategy) *Extractor {
	return &Extractor{Strategies: strategies}
}

// Default returns the production pipeline: readability first, then the
// boilerplate-stripping walk over the body.
func Default() *Extractor {
	return New(ReadabilityStrategy{}, BoilerplateStrategy{})
}

var defaultExtractor = Default()

// Extract returns normalized, truncated main-content text for html using the
// default strategies. It never panics; unusable input yields "".
func Extract(html string, maxChars int) string {
	return defaultExtractor.Extract(html, maxChars)
}

// FromHTML extracts both the bounded text and the title of a page.
func FromHTML(input []byte, maxChars int) Document {
	return defaultExtractor.FromHTML(input, maxChars)
}

// FromHTML is Extract plus ExtractTitle over the same page.
func (e *Extractor) FromHTML(input []byte, maxChars int) Document {
	html := string(input)
	title, _ := ExtractTitle(html)
	return Document{Title: title, Text: e.Extract(html, maxChars)}
}

// Extract runs the strategy list over html. The first strategy reporting a
// result wins; its text is whitespace-normalized and then truncated to
// maxChars (DefaultMaxChars when maxChars <= 0).
func (e *Extractor) Extract(html string, maxChars int) string {
	if html == "" {
		return ""
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	for _, s := range e.Strategies {
		text, ok := runStrategy(s, html)
		if !ok {
			continue
		}
		log.Debug().Str("strategy", s.Name()).Int("chars", len(text)).Msg("extracted content")
		return Truncate(NormalizeWhitespace(text), maxChars)
	}
	return ""
}

// runStrategy converts a panicking strategy into an absent result.
func runStrategy(s Strategy, html string) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("strategy", s.Name()).Str("panic", fmt.Sprint(r)).Msg("extraction strategy panicked")
			text, ok = "", false
		}
	}()
	return s.Extract(html)
}
