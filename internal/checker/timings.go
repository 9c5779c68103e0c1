package checker

import (
	"github.com/olegrjumin/siteaudit/internal/httpclient"
)

// FetchTimings holds page fetch phase durations in milliseconds
type FetchTimings struct {
	DNSMs     int64 `json:"dnsMs"`
	ConnectMs int64 `json:"connectMs"`
	TLSMs     int64 `json:"tlsMs"`
	TTFBMs    int64 `json:"ttfbMs"`
	TotalMs   int64 `json:"totalMs"`
}

// ExtractTimings converts httpclient.TimingInfo to FetchTimings.
// Phases that did not happen (reused connection, plain HTTP) stay zero.
func ExtractTimings(timings *httpclient.TimingInfo) FetchTimings {
	perf := FetchTimings{}
	if timings == nil {
		return perf
	}

	if !timings.DNSStart.IsZero() && !timings.DNSDone.IsZero() {
		perf.DNSMs = timings.DNSDone.Sub(timings.DNSStart).Milliseconds()
	}

	if !timings.ConnectStart.IsZero() && !timings.ConnectDone.IsZero() {
		perf.ConnectMs = timings.ConnectDone.Sub(timings.ConnectStart).Milliseconds()
	}

	if !timings.TLSStart.IsZero() && !timings.TLSDone.IsZero() {
		perf.TLSMs = timings.TLSDone.Sub(timings.TLSStart).Milliseconds()
	}

	// Time to first byte from request start
	if !timings.RequestStart.IsZero() && !timings.GotFirstByte.IsZero() {
		perf.TTFBMs = timings.GotFirstByte.Sub(timings.RequestStart).Milliseconds()
	}

	if !timings.RequestStart.IsZero() && !timings.RequestDone.IsZero() {
		perf.TotalMs = timings.RequestDone.Sub(timings.RequestStart).Milliseconds()
	}

	return perf
}
