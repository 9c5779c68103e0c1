package checker

import "net/http"

// securityHeaderNames are the response headers that make up the header
// sub-score. Each present header is worth headerPoints.
var securityHeaderNames = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Referrer-Policy",
	"Permissions-Policy",
}

const (
	headerPoints   = 5
	maxHeaderScore = 30

	// Below this the header posture counts as weak (fewer than half present)
	weakHeaderThreshold = maxHeaderScore / 2
)

// AnalyzeSecurityHeaders scores the presence of the standard security headers.
// A nil header set means the probe failed; every header is then reported absent.
func AnalyzeSecurityHeaders(headers http.Header) *SecurityHeaders {
	result := &SecurityHeaders{
		Checks:   make([]HeaderCheck, 0, len(securityHeaderNames)),
		MaxScore: maxHeaderScore,
		Probed:   headers != nil,
	}

	for _, name := range securityHeaderNames {
		value := ""
		if headers != nil {
			value = headers.Get(name)
		}
		check := HeaderCheck{Name: name, Present: value != "", Value: value}
		if check.Present {
			result.Score += headerPoints
		}
		result.Checks = append(result.Checks, check)
	}

	if result.Score > maxHeaderScore {
		result.Score = maxHeaderScore
	}

	return result
}

// MissingHeaders lists the names of absent headers in check order
func (h *SecurityHeaders) MissingHeaders() []string {
	var missing []string
	for _, c := range h.Checks {
		if !c.Present {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// Weak reports whether fewer than half of the security headers are present
func (h *SecurityHeaders) Weak() bool {
	return h.Score < weakHeaderThreshold
}
