package checker

import "time"

// Options holds per-analysis parameters
type Options struct {
	// Timeout for the page fetch; exceeding it fails the analysis
	Timeout time.Duration

	// ProbeTimeout bounds the HEAD request used for security headers
	ProbeTimeout time.Duration

	// ReputationTimeout bounds each reputation lookup
	ReputationTimeout time.Duration

	// MaxRedirects is the maximum number of redirects to follow
	MaxRedirects int

	// MaxBodyBytes caps how much of the page is read
	MaxBodyBytes int64

	// UserAgent is the User-Agent header to send
	UserAgent string

	// Progress, when set, receives each completed stage
	Progress func(Stage)
}

// DefaultOptions returns Options with sensible defaults
func DefaultOptions() Options {
	return Options{
		Timeout:           15 * time.Second,
		ProbeTimeout:      5 * time.Second,
		ReputationTimeout: 5 * time.Second,
		MaxRedirects:      5,
		MaxBodyBytes:      5 * 1024 * 1024, // 5MB
		UserAgent:         "siteaudit/1.0",
	}
}
