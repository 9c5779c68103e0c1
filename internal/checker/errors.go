package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Sentinel errors surfaced to the API and CLI layers
var (
	ErrMissingURL  = errors.New("url is required")
	ErrInvalidURL  = errors.New("malformed URL")
	ErrFetchFailed = errors.New("target fetch failed")
)

// Error kind constants
const (
	ErrorNone       = "none"
	ErrorInvalidURL = "invalid_url"
	ErrorTimeout    = "timeout"
	ErrorDNS        = "dns_error"
	ErrorTLS        = "tls_error"
	ErrorNetwork    = "network_error"
	ErrorHTTP       = "http_error"
)

// FetchError describes why the page fetch failed. It matches ErrFetchFailed.
type FetchError struct {
	URL    string
	Kind   string
	Status int // set for ErrorHTTP
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == ErrorHTTP {
		return fmt.Sprintf("%s: %s: HTTP %d", ErrFetchFailed, e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrFetchFailed, e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrFetchFailed, e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// Timeout reports whether the fetch ran out of time
func (e *FetchError) Timeout() bool { return e.Kind == ErrorTimeout }

// newFetchError classifies a transport error
func newFetchError(rawURL string, err error) *FetchError {
	kind, _ := ClassifyError(err)
	return &FetchError{URL: rawURL, Kind: kind, Err: err}
}

// ClassifyError determines the error kind from a Go error.
// Returns the kind constant and a human-readable message.
func ClassifyError(err error) (string, string) {
	if err == nil {
		return ErrorNone, ""
	}

	if errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrMissingURL) {
		return ErrorInvalidURL, err.Error()
	}

	errMsg := err.Error()

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout, "request timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout, "request timeout"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorDNS, "DNS lookup failed"
	}

	// TLS/certificate errors
	if strings.Contains(errMsg, "tls") || strings.Contains(errMsg, "TLS") {
		return ErrorTLS, "TLS handshake failed"
	}
	if strings.Contains(errMsg, "certificate") || strings.Contains(errMsg, "x509") {
		return ErrorTLS, "certificate error"
	}

	if strings.Contains(errMsg, "connection refused") {
		return ErrorNetwork, "connection refused"
	}
	if strings.Contains(errMsg, "connection reset") {
		return ErrorNetwork, "connection reset"
	}
	if strings.Contains(errMsg, "no such host") {
		return ErrorDNS, "host not found"
	}
	if strings.Contains(errMsg, "network is unreachable") {
		return ErrorNetwork, "network unreachable"
	}

	return ErrorNetwork, errMsg
}
