package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/webresearch/internal/headers"
)

// Page is a successfully fetched HTML response, decoded to UTF-8.
type Page struct {
	URL string
	// FinalURL is where redirects ended; it equals URL when there were none.
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client issues single-attempt GET requests for HTML pages.
type Client struct {
	HTTPClient *http.Client
	// Headers supplies browser-like request headers. Nil means headers.Default().
	Headers *headers.Pool
	// PerRequestTimeout bounds each request. Zero means no client-side bound.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) headerPool() *headers.Pool {
	if c.Headers != nil {
		return c.Headers
	}
	return defaultHeaders
}

var defaultHeaders = headers.Default()

// Get fetches url once, bounded by PerRequestTimeout.
func (c *Client) Get(ctx context.Context, url string) (*Page, error) {
	return c.get(ctx, url, c.PerRequestTimeout)
}

func (c *Client) get(ctx context.Context, rawURL string, timeout time.Duration) (*Page, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme)
	}
	c.headerPool().Apply(req)

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{URL: rawURL, Timeout: timeout}
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	contentType := resp.Header.Get("Content-Type")
	if !isAllowedHTMLContentType(contentType) {
		return nil, &ContentTypeError{URL: rawURL, ContentType: contentType}
	}

	reader, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{URL: rawURL, Timeout: timeout}
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Page{URL: rawURL, FinalURL: finalURL, StatusCode: resp.StatusCode, ContentType: contentType, Body: b}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml")
}
