package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtract_Empty(t *testing.T) {
	if got := Extract("", 100); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestExtract_DropsScriptKeepsParagraph(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>Script Page</title><script>var secret = "do-not-show";</script></head>
      <body>
        <script>console.log("tracking-pixel")</script>
        <article>
          <p>The quick brown fox jumps over the lazy dog while the reader keeps reading this paragraph.</p>
        </article>
      </body>
    </html>`

	text := Extract(html, 0)
	if !strings.Contains(text, "The quick brown fox jumps over the lazy dog") {
		t.Fatalf("expected paragraph text, got %q", text)
	}
	if strings.Contains(text, "do-not-show") || strings.Contains(text, "tracking-pixel") {
		t.Fatalf("did not expect script content in %q", text)
	}
}

func TestExtract_LongTextIsBounded(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><head><title>Long</title></head><body><article>")
	for i := 0; i < 60; i++ {
		b.WriteString("<p>")
		b.WriteString(sampleText)
		b.WriteString("</p>")
	}
	b.WriteString("</article></body></html>")

	text := Extract(b.String(), 500)
	if n := utf8.RuneCountInString(text); n > 500+utf8.RuneCountInString(TruncatedEllipsisMarker) {
		t.Fatalf("extracted text too long: %d runes", n)
	}
	if !strings.HasSuffix(text, "[Content truncated...]") {
		t.Fatalf("expected truncation marker, got %q", text)
	}
}

func TestExtract_OutputWhitespaceInvariants(t *testing.T) {
	html := "<html><body><div>\n\n\n   first    line   \n \n \n \n second\t line  </div><p>  third   </p></body></html>"
	for _, e := range []*Extractor{Default(), New(BoilerplateStrategy{})} {
		text := e.Extract(html, 0)
		if strings.Contains(text, "\n\n\n") {
			t.Fatalf("found 3+ newlines in %q", text)
		}
		if strings.Contains(text, "  ") {
			t.Fatalf("found double space in %q", text)
		}
		if text != strings.TrimSpace(text) {
			t.Fatalf("expected trimmed output, got %q", text)
		}
	}
}

func TestExtractor_FirstPresentStrategyWins(t *testing.T) {
	calls := []string{}
	absent := StrategyFunc{Label: "absent", Fn: func(string) (string, bool) {
		calls = append(calls, "absent")
		return "", false
	}}
	first := StrategyFunc{Label: "first", Fn: func(string) (string, bool) {
		calls = append(calls, "first")
		return "  from   first  ", true
	}}
	never := StrategyFunc{Label: "never", Fn: func(string) (string, bool) {
		calls = append(calls, "never")
		return "from never", true
	}}

	got := New(absent, first, never).Extract("<p>x</p>", 100)
	if got != "from first" {
		t.Fatalf("expected normalized first result, got %q", got)
	}
	if strings.Join(calls, ",") != "absent,first" {
		t.Fatalf("unexpected strategy order: %v", calls)
	}
}

func TestExtractor_PanicFallsThrough(t *testing.T) {
	boom := StrategyFunc{Label: "boom", Fn: func(string) (string, bool) { panic("parser exploded") }}
	fallback := StrategyFunc{Label: "fallback", Fn: func(string) (string, bool) { return "recovered", true }}

	if got := New(boom, fallback).Extract("<p>x</p>", 100); got != "recovered" {
		t.Fatalf("expected fallback result, got %q", got)
	}
	if got := New(boom).Extract("<p>x</p>", 100); got != "" {
		t.Fatalf("expected empty result when every strategy fails, got %q", got)
	}
}

func TestExtractor_TruncatesResult(t *testing.T) {
	long := strings.Repeat("z", 300)
	s := StrategyFunc{Label: "long", Fn: func(string) (string, bool) { return long, true }}
	got := New(s).Extract("<p>x</p>", 100)
	if got != strings.Repeat("z", 100)+TruncatedEllipsisMarker {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestBoilerplate_RemovesChromeTags(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>Test Page</title></head>
      <body>
        <header>Site header</header>
        <nav>Nav should be ignored</nav>
        <main>
          <h1>Main Heading</h1>
          <p>This is the main content paragraph.</p>
          <form><button>Subscribe</button></form>
        </main>
        <aside>Aside text</aside>
        <footer>Footer text</footer>
        <noscript>Enable JS</noscript>
      </body>
    </html>`

	text, ok := BoilerplateStrategy{}.Extract(html)
	if !ok {
		t.Fatalf("expected boilerplate strategy to produce text")
	}
	if text != "Main Heading\n\nThis is the main content paragraph." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestBoilerplate_RemovesKeywordContainers(t *testing.T) {
	html := `<html><body class="loaded">
      <div class="Sidebar-Left">Sidebar links</div>
      <div id="share-buttons">Share this</div>
      <section class="user-comments">A comment</section>
      <p class="lead">Lead text</p>
      <div class="content"><p>Kept body text</p></div>
    </body></html>`

	text, ok := BoilerplateStrategy{}.Extract(html)
	if !ok {
		t.Fatalf("expected text")
	}
	if text != "Kept body text" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestBoilerplate_OneTextNodePerLineBlocksSeparated(t *testing.T) {
	html := `<html><head><title>ignored title</title></head><body><h2>Examples</h2><ul><li>First item</li><li>Second <b>bold</b> item</li></ul></body></html>`
	text, ok := BoilerplateStrategy{}.Extract(html)
	if !ok {
		t.Fatalf("expected text")
	}
	want := "Examples\n\nFirst item\nSecond\nbold\nitem"
	if text != want {
		t.Fatalf("got %q want %q", text, want)
	}
}

func TestBoilerplate_AbsentWhenNothingLeft(t *testing.T) {
	if _, ok := (BoilerplateStrategy{}).Extract(`<html><body><nav>only nav</nav><script>x()</script></body></html>`); ok {
		t.Fatalf("expected no result for chrome-only page")
	}
}

func TestFromHTML_TitleAndText(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>Code and List</title></head>
      <body>
        <article>
          <h3>Examples</h3>
          <p>Lists and code samples are part of the main body of this documentation page.</p>
          <ul>
            <li>First item, which explains how to install the command line tool on a workstation.</li>
            <li>Second item, which explains how to configure the search provider and the timeouts.</li>
          </ul>
        </article>
      </body>
    </html>`

	doc := FromHTML([]byte(html), 0)
	if doc.Title != "Code and List" {
		t.Fatalf("expected title 'Code and List', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "First item") || !strings.Contains(doc.Text, "Second item") {
		t.Fatalf("expected to contain list items; got: %q", doc.Text)
	}
}

func TestFromHTML_NoTitle(t *testing.T) {
	doc := FromHTML([]byte("<p>no heading here</p>"), 0)
	if doc.Title != "" {
		t.Fatalf("expected empty title, got %q", doc.Title)
	}
}

func TestExtract_MinifiedBlocksStaySeparate(t *testing.T) {
	html := `<html><head><title>T</title></head><body><article><p>First paragraph has text.</p><p>Second paragraph here.</p><ul><li>alpha</li><li>beta</li></ul></article><div class="nav">Menu</div><div class="content"><p>Body text</p></div></body></html>`
	for _, e := range []*Extractor{Default(), New(BoilerplateStrategy{})} {
		text := e.Extract(html, 0)
		for _, fused := range []string{"text.Second", "alphabeta", "MenuBody", "here.alpha"} {
			if strings.Contains(text, fused) {
				t.Fatalf("found fused text %q in %q", fused, text)
			}
		}
		if !strings.Contains(text, "First paragraph has text.\n\nSecond paragraph here.") {
			t.Fatalf("expected paragraphs split by a blank line, got %q", text)
		}
	}
}

func TestExtract_MinifiedCutsAtParagraph(t *testing.T) {
	var paragraphs []string
	var b strings.Builder
	b.WriteString("<html><head><title>Cut</title></head><body><article>")
	for i := 1; i <= 4; i++ {
		p := "Paragraph " + string(rune('0'+i)) + ". " + sampleText
		paragraphs = append(paragraphs, p)
		b.WriteString("<p>" + p + "</p>")
	}
	b.WriteString("</article></body></html>")

	got := Extract(b.String(), 340)
	want := paragraphs[0] + "\n\n" + paragraphs[1] + TruncatedMarker
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestReadability_AbsentWithoutContent(t *testing.T) {
	if _, ok := (ReadabilityStrategy{}).Extract(`<html><body></body></html>`); ok {
		t.Fatalf("expected no readability result for an empty body")
	}
}

func TestExtractor_ForPageSetsReadabilityURL(t *testing.T) {
	base := Default()
	e := base.ForPage("https://docs.example.org/guide/intro")
	if e == base {
		t.Fatalf("expected a copy for a valid page URL")
	}
	r, ok := e.Strategies[0].(ReadabilityStrategy)
	if !ok || r.PageURL == nil || r.PageURL.String() != "https://docs.example.org/guide/intro" {
		t.Fatalf("readability strategy not bound to page URL: %+v", e.Strategies[0])
	}
	if _, ok := e.Strategies[1].(BoilerplateStrategy); !ok {
		t.Fatalf("other strategies should be kept, got %+v", e.Strategies[1])
	}
	if base.Strategies[0].(ReadabilityStrategy).PageURL != nil {
		t.Fatalf("original extractor must not change")
	}
	if got := base.ForPage("not a url"); got != base {
		t.Fatalf("expected the same extractor for a relative URL")
	}
}
