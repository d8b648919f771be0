package extract

import (
	"strings"
	"unicode/utf8"
)

const (
	// TruncatedMarker follows text cut at a paragraph or sentence boundary.
	TruncatedMarker = "\n\n[Content truncated...]"
	// TruncatedEllipsisMarker follows text cut mid-sentence.
	TruncatedEllipsisMarker = "...\n\n[Content truncated...]"
)

const (
	boundaryRatio = 0.7
	wordRatio     = 0.8
)

var sentenceEnds = []string{". ", "! ", "? "}

// Truncate bounds text to maxChars runes, preferring to cut at a paragraph
// break, then a sentence end, then a word boundary, and appends a marker.
// Text within the limit is returned unchanged. maxChars <= 0 disables the
// limit.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	cut := text[:byteOffset(text, maxChars)]

	if i := strings.LastIndex(cut, "\n\n"); i >= 0 && atLeast(cut, i, boundaryRatio, maxChars) {
		return strings.TrimSpace(cut[:i]) + TruncatedMarker
	}

	end := -1
	for _, p := range sentenceEnds {
		if i := strings.LastIndex(cut, p); i > end {
			end = i
		}
	}
	if end >= 0 && atLeast(cut, end, boundaryRatio, maxChars) {
		return strings.TrimSpace(cut[:end+1]) + TruncatedMarker
	}

	if i := strings.LastIndex(cut, " "); i >= 0 && atLeast(cut, i, wordRatio, maxChars) {
		return strings.TrimSpace(cut[:i]) + TruncatedEllipsisMarker
	}
	return strings.TrimSpace(cut) + TruncatedEllipsisMarker
}

// byteOffset returns the byte index where the n-th rune of s starts.
func byteOffset(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}

// atLeast reports whether byte index i of s sits at or past ratio*maxChars runes.
func atLeast(s string, i int, ratio float64, maxChars int) bool {
	return float64(utf8.RuneCountInString(s[:i])) >= ratio*float64(maxChars)
}
