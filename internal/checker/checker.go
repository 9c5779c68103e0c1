package checker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegrjumin/siteaudit/internal/httpclient"
)

// ReputationSource answers whether a URL is listed as malicious
type ReputationSource interface {
	Name() string
	Check(ctx context.Context, target string) (listed bool, detail string, err error)
}

// Checker fetches pages and runs the analyzers over them
type Checker struct {
	client  *httpclient.Client
	sources []ReputationSource
	now     func() time.Time
}

// New creates a new Checker instance
func New(client *httpclient.Client, sources ...ReputationSource) *Checker {
	return &Checker{
		client:  client,
		sources: sources,
		now:     time.Now,
	}
}

// Analyze validates the URL, fetches the page, runs the network sub-checks
// and returns the report. A malformed URL returns ErrInvalidURL before any
// network access; a failed fetch returns a *FetchError matching ErrFetchFailed.
// Probe and reputation failures only degrade their own findings.
func (c *Checker) Analyze(ctx context.Context, rawURL string, opts Options) (*AnalysisReport, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	opts = withDefaults(opts)

	progress := emitter(opts.Progress)
	progress.emit(StageStart, "Starting analysis", map[string]string{"url": target})

	// Sub-checks run alongside the fetch and are cancelled if it fails
	auxCtx, cancelAux := context.WithCancel(ctx)
	defer cancelAux()

	var (
		probe      *httpclient.Response
		reputation []ReputationCheck
		aux        errgroup.Group
	)
	aux.Go(func() error {
		probe = c.probeHeaders(auxCtx, target, opts)
		return nil
	})
	aux.Go(func() error {
		reputation = c.checkReputation(auxCtx, target, opts)
		return nil
	})

	resp, err := c.fetch(ctx, target, opts)
	if err != nil {
		cancelAux()
		_ = aux.Wait()
		progress.emit(StageError, err.Error(), map[string]string{"url": target})
		return nil, err
	}

	progress.emit(StageFetched, "Page fetched", FetchInfo{
		URL:        target,
		FinalURL:   resp.FinalURL,
		StatusCode: resp.StatusCode,
		Redirects:  resp.Redirects,
		Bytes:      len(resp.Body),
		Truncated:  resp.Truncated,
		Timings:    ExtractTimings(resp.Timings),
	})

	_ = aux.Wait()

	in := Input{
		URL:        target,
		FinalURL:   resp.FinalURL,
		HTML:       string(resp.Body),
		Headers:    resp.Header,
		TLS:        resp.TLS,
		Reputation: reputation,
		Now:        c.now(),
	}
	if usableHeadResponse(probe) {
		in.Headers = probe.Header
	}

	report := analyzeDocument(in, progress)
	progress.emit(StageComplete, "Analysis complete", report)
	return report, nil
}

// fetch GETs the page under the overall timeout and turns failures into *FetchError
func (c *Checker) fetch(ctx context.Context, target string, opts Options) (*httpclient.Response, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	resp, err := c.client.Fetch(fetchCtx, target, httpclient.FetchOptions{
		UserAgent:    opts.UserAgent,
		MaxRedirects: opts.MaxRedirects,
		MaxBodyBytes: opts.MaxBodyBytes,
	})
	if err != nil {
		if errors.Is(err, httpclient.ErrTooManyRedirects) {
			return nil, &FetchError{URL: target, Kind: ErrorHTTP, Err: err}
		}
		if fetchCtx.Err() == context.DeadlineExceeded {
			return nil, &FetchError{URL: target, Kind: ErrorTimeout, Err: err}
		}
		return nil, newFetchError(target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: target, Kind: ErrorHTTP, Status: resp.StatusCode}
	}
	return resp, nil
}

// probeHeaders sends a HEAD request for the security headers.
// Returns nil when the probe fails or times out.
func (c *Checker) probeHeaders(ctx context.Context, target string, opts Options) *httpclient.Response {
	probeCtx, cancel := context.WithTimeout(ctx, opts.ProbeTimeout)
	defer cancel()

	resp, err := c.client.Head(probeCtx, target, httpclient.FetchOptions{
		UserAgent:    opts.UserAgent,
		MaxRedirects: opts.MaxRedirects,
	})
	if err != nil {
		return nil
	}
	return resp
}

// usableHeadResponse reports whether the HEAD headers should replace the GET
// headers: only a 2xx answer describes the served page.
func usableHeadResponse(resp *httpclient.Response) bool {
	return resp != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// checkReputation queries every source concurrently, each under its own
// timeout. A failing source yields an unlisted check carrying the error.
func (c *Checker) checkReputation(ctx context.Context, target string, opts Options) []ReputationCheck {
	checks := make([]ReputationCheck, len(c.sources))

	var g errgroup.Group
	for i, src := range c.sources {
		g.Go(func() error {
			srcCtx, cancel := context.WithTimeout(ctx, opts.ReputationTimeout)
			defer cancel()

			check := ReputationCheck{Source: src.Name()}
			listed, detail, err := src.Check(srcCtx, target)
			if err != nil {
				check.Error = err.Error()
			} else {
				check.Listed = listed
				check.Detail = detail
			}
			checks[i] = check
			return nil
		})
	}
	_ = g.Wait()

	return checks
}

// ValidateURL normalizes and validates an analysis target. A missing scheme
// defaults to https; anything other than http(s) with a host is rejected.
func ValidateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrMissingURL
	}

	normalized := NormalizeURL(rawURL)
	parsedURL, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("%w: URL must use http or https", ErrInvalidURL)
	}
	if parsedURL.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if strings.ContainsAny(parsedURL.Hostname(), " \t") {
		return "", fmt.Errorf("%w: invalid host", ErrInvalidURL)
	}

	return parsedURL.String(), nil
}

// NormalizeURL adds https:// when the URL has no scheme
func NormalizeURL(rawURL string) string {
	if strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "https://" + rawURL
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = def.ProbeTimeout
	}
	if opts.ReputationTimeout <= 0 {
		opts.ReputationTimeout = def.ReputationTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = def.MaxRedirects
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = def.MaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	return opts
}
