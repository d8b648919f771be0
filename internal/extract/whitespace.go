package extract

import (
	"regexp"
	"strings"
)

var (
	blankRunRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe = regexp.MustCompile(` {2,}`)
)

// NormalizeWhitespace trims every line, collapses three or more newlines to
// a paragraph break, collapses runs of spaces and trims the whole text.
// Lines are trimmed first so whitespace-only lines cannot leave behind three
// newlines in a row.
func NormalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
