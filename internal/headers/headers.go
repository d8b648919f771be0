// Package headers supplies browser-like request header profiles so outgoing
// fetches look like ordinary page views.
package headers

import (
	"math/rand/v2"
	"net/http"
)

// Profile is a named, read-only set of request headers.
// Accept-Encoding is left unset so net/http negotiates and decodes
// compression itself.
type Profile struct {
	Name   string
	Values map[string]string
}

var defaultProfiles = []Profile{
	{
		Name: "chrome-mac",
		Values: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		},
	},
	{
		Name: "chrome-windows",
		Values: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	},
	{
		Name: "firefox-linux",
		Values: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		},
	},
	{
		Name: "safari-mac",
		Values: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	},
}

// DefaultProfiles returns a copy of the built-in profile list.
func DefaultProfiles() []Profile {
	out := make([]Profile, len(defaultProfiles))
	copy(out, defaultProfiles)
	return out
}

// Pool hands out header profiles. It is safe for concurrent use as long as
// the profiles are not mutated after construction.
type Pool struct {
	profiles []Profile
	pick     func(n int) int
}

// NewPool returns a pool over profiles. pick chooses an index in [0, n); nil
// means uniformly random.
func NewPool(profiles []Profile, pick func(n int) int) *Pool {
	if pick == nil {
		pick = rand.IntN
	}
	return &Pool{profiles: profiles, pick: pick}
}

// Default returns a randomly rotating pool over DefaultProfiles.
func Default() *Pool {
	return NewPool(DefaultProfiles(), nil)
}

// Fixed returns a pool that always applies a single User-Agent.
func Fixed(userAgent string) *Pool {
	return NewPool([]Profile{{Name: "fixed", Values: map[string]string{"User-Agent": userAgent}}}, nil)
}

// Pick returns one profile, or the zero Profile when the pool is empty.
func (p *Pool) Pick() Profile {
	if p == nil || len(p.profiles) == 0 {
		return Profile{}
	}
	if len(p.profiles) == 1 {
		return p.profiles[0]
	}
	return p.profiles[p.pick(len(p.profiles))]
}

// Apply sets the headers of one picked profile on req.
func (p *Pool) Apply(req *http.Request) {
	for k, v := range p.Pick().Values {
		req.Header.Set(k, v)
	}
}
