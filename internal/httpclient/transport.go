package httpclient

import (
	"net/http"
	"time"
)

// NewTransport creates the shared transport used for page fetches and probes.
// It is reused across requests for connection pooling.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,

		ForceAttemptHTTP2: true,
	}
}
