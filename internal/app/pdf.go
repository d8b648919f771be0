package app

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/webresearch/internal/fetch"
)

// WriteDigestPDF renders the pages of a fetch result into outPath, in the
// order of urls. Failed pages are listed with their error.
func WriteDigestPDF(res fetch.Result, urls []string, outPath string) error {
	return writeSimplePDF(digestMarkdown(res, urls), outPath)
}

// digestMarkdown lays out a fetch result as the small Markdown subset that
// writeSimplePDF understands: '#' headings, [text](url) links, paragraphs.
func digestMarkdown(res fetch.Result, urls []string) string {
	var b strings.Builder
	b.WriteString("# Web research digest\n\n")
	fmt.Fprintf(&b, "%d fetched, %d failed\n\n", res.SuccessCount, res.ErrorCount)
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		if content, ok := res.Contents[u]; ok {
			title := res.Titles[u]
			if title == "" {
				title = u
			}
			fmt.Fprintf(&b, "## %s\n\n[%s](%s)\n\n%s\n\n", title, u, u, content)
			continue
		}
		if msg, ok := res.Errors[u]; ok {
			fmt.Fprintf(&b, "## %s\n\nError: %s\n\n", u, msg)
		}
	}
	return b.String()
}

// writeSimplePDF renders a minimal PDF from Markdown text, preserving paragraphs and
// turning Markdown links [text](url) into clickable PDF links. It does not
// perform full Markdown layout.
func writeSimplePDF(markdown string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(3)
			continue
		}
		if strings.HasPrefix(s, "#") {
			level := 0
			for level < len(s) && s[level] == '#' {
				level++
			}
			text := strings.TrimSpace(s[level:])
			if text == "" {
				continue
			}
			size := 16.0
			if level >= 2 {
				size = 13.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 7, tr(text), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		if text, url, ok := parseLinkLine(s); ok {
			pdf.SetTextColor(0, 0, 200)
			pdf.WriteLinkString(5, tr(text), url)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(6)
			continue
		}
		pdf.MultiCell(0, 5, tr(s), "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.OutputFileAndClose(outPath)
}

// parseLinkLine recognises a line that is exactly one [text](url) link.
func parseLinkLine(s string) (text, url string, ok bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	mid := strings.Index(s, "](")
	if mid < 0 {
		return "", "", false
	}
	return s[1:mid], s[mid+2 : len(s)-1], true
}
