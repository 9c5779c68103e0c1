package checker

import (
	"net/url"
	"strings"

	"github.com/olegrjumin/siteaudit/internal/catalog"
)

// AnalyzeSecurity runs platform detection and the auxiliary header, TLS,
// script and reputation checks for one document
func AnalyzeSecurity(doc *Document, in Input) SecurityResult {
	sec := catalog.Default().Security
	detection := DetectPlatform(doc)

	result := SecurityResult{
		IsWordPress:     detection.Detected,
		DetectionMethod: detection.Method,
		IsHardened:      detection.Hardened,
		Plugins:         []Component{},
		Themes:          []Component{},
		Vulnerabilities: []Vulnerability{},
		Reputation:      []ReputationCheck{},
	}

	if detection.Detected {
		result.Version = ExtractPlatformVersion(doc)
		result.Plugins, result.Themes = ExtractComponents(doc)
		result.Vulnerabilities = FindVulnerabilities(result.Version, result.Plugins, sec)
	}

	result.Score = CalculateSecurityScore(detection.Detected, detection.Hardened, result.Version, result.Vulnerabilities)

	// Auxiliary checks run whether or not the platform was found
	result.Headers = AnalyzeSecurityHeaders(in.Headers)
	result.SSL = AnalyzeTLS(in.pageURL(), in.TLS, in.now())
	result.ConsoleWarnings = DetectConsoleWarnings(doc.Source(), isHTTPS(in.pageURL()))
	if len(in.Reputation) > 0 {
		result.Reputation = append(result.Reputation, in.Reputation...)
	}
	result.PostureScore = CalculatePostureScore(&result)

	return result
}

func isHTTPS(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && strings.EqualFold(u.Scheme, "https")
}
