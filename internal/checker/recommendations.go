package checker

import (
	"fmt"
	"sort"
	"strings"
)

// GenerateRecommendations maps findings to action items, sorted by severity
// with ties kept in rule order. The result is never nil.
func GenerateRecommendations(sec SecurityResult, gdpr GDPRResult, acc AccessibilityResult) []Recommendation {
	recs := []Recommendation{}
	recs = append(recs, securityRecommendations(sec)...)
	recs = append(recs, gdprRecommendations(gdpr)...)
	recs = append(recs, accessibilityRecommendations(acc)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Severity.Rank() > recs[j].Severity.Rank()
	})
	return recs
}

func securityRecommendations(sec SecurityResult) []Recommendation {
	var recs []Recommendation

	if !sec.IsWordPress {
		recs = append(recs, Recommendation{
			Category:    CategorySecurity,
			Severity:    SeverityMedium,
			Title:       "Platform not detected",
			Description: "No WordPress signals were found, so platform-specific vulnerability checks were skipped.",
			Action:      "Verify the site platform manually and keep it patched.",
		})
	}

	if sec.IsHardened {
		recs = append(recs, Recommendation{
			Category:    CategorySecurity,
			Severity:    SeverityLow,
			Title:       "Platform fingerprints are hidden",
			Description: "WordPress was only identifiable from low-visibility traces. " + sec.DetectionMethod,
			Action:      "Keep suppressing version and path fingerprints.",
		})
	}

	if critical := vulnerabilitiesOf(sec.Vulnerabilities, SeverityCritical); len(critical) > 0 {
		recs = append(recs, Recommendation{
			Category:    CategorySecurity,
			Severity:    SeverityCritical,
			Title:       "Critical vulnerabilities detected",
			Description: fmt.Sprintf("Found %d critical issue(s): %s.", len(critical), strings.Join(critical, "; ")),
			Action:      "Update WordPress core and the affected plugins immediately.",
		})
	}

	if sec.SSL != nil && !sec.SSL.Valid {
		desc := "The page is not served over a valid HTTPS connection."
		if sec.SSL.Error != "" {
			desc += " " + sec.SSL.Error + "."
		}
		recs = append(recs, Recommendation{
			Category:    CategorySecurity,
			Severity:    SeverityCritical,
			Title:       "Invalid or missing SSL certificate",
			Description: desc,
			Action:      "Install a valid certificate and redirect all HTTP traffic to HTTPS.",
		})
	}

	if sec.Headers != nil && sec.Headers.Weak() {
		recs = append(recs, Recommendation{
			Category:    CategorySecurity,
			Severity:    SeverityHigh,
			Title:       "Weak security headers",
			Description: fmt.Sprintf("Header score %d/%d. Missing: %s.", sec.Headers.Score, sec.Headers.MaxScore, strings.Join(sec.Headers.MissingHeaders(), ", ")),
			Action:      "Configure the missing security headers on the web server.",
		})
	}

	if n := HighSeverityWarnings(sec.ConsoleWarnings); n > 0 {
		recs = append(recs, Recommendation{
			Category:    CategorySecurity,
			Severity:    SeverityHigh,
			Title:       "High-severity script issues",
			Description: fmt.Sprintf("Found %d high-severity script or content warning(s).", n),
			Action:      "Remove eval usage, load every resource over HTTPS and update outdated libraries.",
		})
	}

	if listed := listedSources(sec.Reputation); len(listed) > 0 {
		recs = append(recs, Recommendation{
			Category:    CategorySecurity,
			Severity:    SeverityCritical,
			Title:       "Site flagged by reputation services",
			Description: "Listed by: " + strings.Join(listed, ", ") + ".",
			Action:      "Scan the site for malware and request delisting once it is clean.",
		})
	}

	return recs
}

func gdprRecommendations(gdpr GDPRResult) []Recommendation {
	var recs []Recommendation

	if !gdpr.HasCookieBanner {
		desc := "No cookie consent mechanism was found."
		if n := DetectedTrackers(gdpr.Trackers); n > 0 {
			desc = fmt.Sprintf("No cookie consent mechanism was found while %d tracker(s) load on the page.", n)
		}
		recs = append(recs, Recommendation{
			Category:    CategoryGDPR,
			Severity:    SeverityHigh,
			Title:       "Missing cookie consent banner",
			Description: desc,
			Action:      "Add a consent banner that blocks trackers until the visitor agrees.",
		})
	}

	if !gdpr.HasPrivacyPolicy {
		recs = append(recs, Recommendation{
			Category:    CategoryGDPR,
			Severity:    SeverityHigh,
			Title:       "Missing privacy policy",
			Description: "No link to a privacy policy was found.",
			Action:      "Publish a privacy policy and link it from the site footer.",
		})
	}

	return recs
}

func accessibilityRecommendations(acc AccessibilityResult) []Recommendation {
	var recs []Recommendation

	if acc.MissingAltImages > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryAccessibility,
			Severity:    SeverityMedium,
			Title:       "Images without alternative text",
			Description: fmt.Sprintf("%d image(s) have missing or meaningless alt text.", acc.MissingAltImages),
			Action:      "Describe each informative image in its alt attribute; use alt=\"\" for decorative ones.",
		})
	}

	if len(acc.HeadingIssues) > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryAccessibility,
			Severity:    SeverityMedium,
			Title:       "Heading structure issues",
			Description: strings.Join(acc.HeadingIssues, "; ") + ".",
			Action:      "Use a single H1 and do not skip heading levels.",
		})
	}

	if acc.MissingAccessibleNames > 0 {
		recs = append(recs, Recommendation{
			Category:    CategoryAccessibility,
			Severity:    SeverityMedium,
			Title:       "Controls without accessible names",
			Description: fmt.Sprintf("%d form field(s), button(s) or link(s) have no accessible name.", acc.MissingAccessibleNames),
			Action:      "Add visible text, a label or an aria-label to each control.",
		})
	}

	return recs
}

func vulnerabilitiesOf(vulns []Vulnerability, severity Severity) []string {
	var out []string
	for _, v := range vulns {
		if v.Severity == severity {
			out = append(out, v.Component+": "+v.Description)
		}
	}
	return out
}

func listedSources(checks []ReputationCheck) []string {
	var out []string
	for _, c := range checks {
		if c.Listed {
			out = append(out, c.Source)
		}
	}
	return out
}
