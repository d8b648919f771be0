// Package urlnorm canonicalizes URLs into equivalence keys for deduplication.
package urlnorm

import (
	"net/url"
	"strings"
)

// trackingParams lists query parameter names, compared case-insensitively,
// that never change what a page shows and are stripped from canonical keys.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {}, "utm_content": {},
	"utm_id": {}, "utm_source_platform": {}, "utm_creative_format": {}, "utm_marketing_tactic": {},
	"fbclid": {}, "gclid": {}, "gclsrc": {}, "dclid": {}, "gbraid": {}, "wbraid": {},
	"msclkid": {}, "twclid": {}, "igshid": {}, "mc_cid": {}, "mc_eid": {},
	"ref": {}, "ref_": {}, "source": {}, "src": {},
}

// IsTrackingParam reports whether name is removed during normalization.
func IsTrackingParam(name string) bool {
	_, ok := trackingParams[strings.ToLower(name)]
	return ok
}

// Normalize returns the canonical key for raw: lower-cased host without a
// single leading "www.", no fragment, tracking parameters removed, and one
// trailing slash dropped from any path other than "/".
//
// A scheme-relative input such as "//example.com/a/" keeps its empty scheme
// and normalizes to "//example.com/a".
//
// Input that does not parse, or that parses without a host (for example
// "not-a-url", "mailto:x@y", or "example.com/path/" which has no scheme and
// so parses as a bare path), is returned unchanged, trailing slash included. Such inputs are only
// ever equal to themselves, so Deduplicate keeps every one of them. Callers
// rely on Normalize never failing; do not turn this into an error.
func Normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	if u.User != nil {
		host = u.User.String() + "@" + host
	}

	path := u.EscapedPath()
	if path != "/" && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}

	var b strings.Builder
	b.Grow(len(raw))
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}
	b.WriteString("//")
	b.WriteString(host)
	b.WriteString(path)
	if q := filterQuery(u.RawQuery); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}

// filterQuery drops tracking parameters from a raw query string while
// keeping the remaining pairs byte-for-byte in their original order.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			name = pair[:i]
		}
		if unescaped, err := url.QueryUnescape(name); err == nil {
			name = unescaped
		}
		if IsTrackingParam(name) {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// Deduplicate returns urls with later entries removed when their canonical
// key was already seen. Survivors keep their original spelling and the
// order of first appearance.
func Deduplicate(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		key := Normalize(u)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}
