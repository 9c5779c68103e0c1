package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"time"
)

const defaultUserAgent = "siteaudit/1.0"

// ErrTooManyRedirects is returned when a fetch exceeds its redirect budget
var ErrTooManyRedirects = errors.New("too many redirects")

// Client wraps http.Client and provides methods for making traced requests
type Client struct {
	httpClient *http.Client
}

// TimingInfo holds performance timing information for a request
type TimingInfo struct {
	DNSStart     time.Time
	DNSDone      time.Time
	ConnectStart time.Time
	ConnectDone  time.Time
	TLSStart     time.Time
	TLSDone      time.Time
	GotFirstByte time.Time
	RequestStart time.Time
	RequestDone  time.Time
}

// Response holds the HTTP response along with timing information
type Response struct {
	StatusCode int
	Proto      string // e.g., "HTTP/2.0"
	Header     http.Header
	TLS        *tls.ConnectionState
	Timings    *TimingInfo

	// Set by Fetch and Head
	Body      []byte
	FinalURL  string
	Redirects int
	Truncated bool // body exceeded the read limit
}

// FetchOptions controls Fetch
type FetchOptions struct {
	UserAgent    string
	MaxRedirects int
	MaxBodyBytes int64
}

// NewClient creates a new HTTP client with the configured transport
func NewClient() *Client {
	return NewClientWithTransport(NewTransport())
}

// NewClientWithTransport creates a client on a caller-provided transport
func NewClientWithTransport(rt http.RoundTripper) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: rt,
			// Redirects are followed by Fetch so every hop is counted
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Head sends a HEAD request, following redirects like Fetch, so the headers
// describe the page that is finally served. Used for the header probe.
func (c *Client) Head(ctx context.Context, rawURL string, opts FetchOptions) (*Response, error) {
	return c.follow(ctx, http.MethodHead, rawURL, opts)
}

// Fetch GETs a page, following up to MaxRedirects redirects, and reads at most
// MaxBodyBytes of the final body. Non-2xx responses are returned, not errors.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts FetchOptions) (*Response, error) {
	return c.follow(ctx, http.MethodGet, rawURL, opts)
}

func (c *Client) follow(ctx context.Context, method, rawURL string, opts FetchOptions) (*Response, error) {
	currentURL := rawURL
	redirects := 0

	for {
		resp, timings, err := c.send(ctx, method, currentURL, opts.UserAgent)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location != "" {
				redirects++
				if redirects > opts.MaxRedirects {
					return nil, fmt.Errorf("%w (max: %d)", ErrTooManyRedirects, opts.MaxRedirects)
				}

				next, err := resolveLocation(currentURL, location)
				if err != nil {
					return nil, err
				}
				currentURL = next
				continue
			}
			// No location header, return the 3xx as is
			result := newResponse(resp, timings)
			result.FinalURL = currentURL
			result.Redirects = redirects
			return result, nil
		}

		body, truncated, err := readLimited(resp.Body, opts.MaxBodyBytes)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		timings.RequestDone = time.Now()

		result := newResponse(resp, timings)
		result.Body = body
		result.Truncated = truncated
		result.FinalURL = currentURL
		result.Redirects = redirects
		return result, nil
	}
}

func (c *Client) send(ctx context.Context, method, url, userAgent string) (*http.Response, *TimingInfo, error) {
	// Create timing info to capture performance metrics
	timings := &TimingInfo{
		RequestStart: time.Now(),
	}

	trace := &httptrace.ClientTrace{
		DNSStart: func(_ httptrace.DNSStartInfo) {
			timings.DNSStart = time.Now()
		},
		DNSDone: func(_ httptrace.DNSDoneInfo) {
			timings.DNSDone = time.Now()
		},
		ConnectStart: func(_, _ string) {
			timings.ConnectStart = time.Now()
		},
		ConnectDone: func(_, _ string, _ error) {
			timings.ConnectDone = time.Now()
		},
		TLSHandshakeStart: func() {
			timings.TLSStart = time.Now()
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, _ error) {
			timings.TLSDone = time.Now()
		},
		GotFirstResponseByte: func() {
			timings.GotFirstByte = time.Now()
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), method, url, nil)
	if err != nil {
		return nil, nil, err
	}

	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	return resp, timings, nil
}

func newResponse(resp *http.Response, timings *TimingInfo) *Response {
	return &Response{
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header,
		TLS:        resp.TLS,
		Timings:    timings,
	}
}

// readLimited reads up to limit bytes; limit <= 0 means no limit
func readLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	if limit <= 0 {
		b, err := io.ReadAll(r)
		return b, false, err
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > limit {
		return b[:limit], true, nil
	}
	return b, false, nil
}

// resolveLocation resolves a possibly relative Location against the current URL
func resolveLocation(current, location string) (string, error) {
	locationURL, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid redirect location %q: %w", location, err)
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(locationURL).String(), nil
}
