package checker

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns scanned against the raw page source
var (
	mixedContentSrcRegex  = regexp.MustCompile(`(?i)<(?:script|img|iframe|source|video|audio|embed)\b[^>]*\ssrc\s*=\s*["']http://`)
	mixedContentLinkRegex = regexp.MustCompile(`(?i)<link\b[^>]*\shref\s*=\s*["']http://[^"']*\.css`)
	evalRegex             = regexp.MustCompile(`\beval\s*\(`)
	scriptTagRegex        = regexp.MustCompile(`(?is)<script\b([^>]*)>(.*?)</script>`)
	jqueryVersionRegex    = regexp.MustCompile(`(?i)jquery(?:\.min\.js\?ver=|\.js\?ver=|[.-]|@)(\d+)\.(\d+)(?:\.(\d+))?`)
)

// minimum jQuery release without the widely exploited XSS issues
const minSafeJQuery = "3.5.0"

// DetectConsoleWarnings scans the page source for issues a browser console
// would surface: mixed content, eval, inline scripts without a nonce and
// outdated jQuery. One warning is reported per issue type (per version for jQuery).
func DetectConsoleWarnings(source string, isHTTPS bool) []ConsoleWarning {
	warnings := []ConsoleWarning{}

	if isHTTPS {
		count := len(mixedContentSrcRegex.FindAllStringIndex(source, -1)) +
			len(mixedContentLinkRegex.FindAllStringIndex(source, -1))
		if count > 0 {
			warnings = append(warnings, ConsoleWarning{
				Type:     "mixed-content",
				Message:  fmt.Sprintf("%d resource(s) loaded over insecure HTTP on an HTTPS page", count),
				Severity: SeverityHigh,
			})
		}
	}

	if count := len(evalRegex.FindAllStringIndex(source, -1)); count > 0 {
		warnings = append(warnings, ConsoleWarning{
			Type:     "eval",
			Message:  fmt.Sprintf("Found %d use(s) of eval()", count),
			Severity: SeverityHigh,
		})
	}

	if count := countInlineScriptsWithoutNonce(source); count > 0 {
		warnings = append(warnings, ConsoleWarning{
			Type:     "inline-script",
			Message:  fmt.Sprintf("%d inline script(s) without a Content-Security-Policy nonce", count),
			Severity: SeverityMedium,
		})
	}

	seen := make(map[string]bool)
	for _, m := range jqueryVersionRegex.FindAllStringSubmatch(source, -1) {
		patch := m[3]
		if patch == "" {
			patch = "0"
		}
		version := m[1] + "." + m[2] + "." + patch
		if seen[version] {
			continue
		}
		seen[version] = true
		if compareVersions(version, minSafeJQuery) < 0 {
			warnings = append(warnings, ConsoleWarning{
				Type:     "outdated-library",
				Message:  fmt.Sprintf("jQuery %s is older than %s and has known XSS vulnerabilities", version, minSafeJQuery),
				Severity: SeverityHigh,
			})
		}
	}

	return warnings
}

// countInlineScriptsWithoutNonce counts executable inline scripts that carry
// no nonce attribute. Data blocks (JSON, templates) are ignored.
func countInlineScriptsWithoutNonce(source string) int {
	count := 0
	for _, m := range scriptTagRegex.FindAllStringSubmatch(source, -1) {
		attrs := strings.ToLower(m[1])
		body := strings.TrimSpace(m[2])
		if body == "" || hasAttr(attrs, "src") || hasAttr(attrs, "nonce") {
			continue
		}
		if strings.Contains(attrs, "json") || strings.Contains(attrs, "text/template") || strings.Contains(attrs, "text/html") {
			continue
		}
		count++
	}
	return count
}

// hasAttr reports whether a lower-cased attribute string declares name
func hasAttr(attrs, name string) bool {
	for _, field := range strings.Fields(attrs) {
		key := field
		if i := strings.Index(field, "="); i >= 0 {
			key = field[:i]
		}
		if key == name {
			return true
		}
	}
	return false
}

// HighSeverityWarnings counts warnings of high or critical severity
func HighSeverityWarnings(warnings []ConsoleWarning) int {
	n := 0
	for _, w := range warnings {
		if w.Severity.Rank() >= SeverityHigh.Rank() {
			n++
		}
	}
	return n
}

