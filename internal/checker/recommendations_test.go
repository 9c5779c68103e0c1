package checker

import "testing"

func TestRecommendationsSorted(t *testing.T) {
	sec := SecurityResult{
		IsWordPress: true,
		IsHardened:  true,
		Vulnerabilities: []Vulnerability{
			{Component: "WordPress core", Severity: SeverityCritical, Description: "RCE"},
		},
		SSL:             &SSLCertificate{Valid: false, Error: "certificate has expired"},
		Headers:         AnalyzeSecurityHeaders(nil),
		ConsoleWarnings: []ConsoleWarning{{Type: "eval", Severity: SeverityHigh}},
		Reputation:      []ReputationCheck{{Source: "dnsbl", Listed: true}},
	}
	gdpr := GDPRResult{}
	acc := AccessibilityResult{MissingAltImages: 3, HeadingIssues: []string{"No H1 heading found"}, MissingAccessibleNames: 1}

	recs := GenerateRecommendations(sec, gdpr, acc)

	// hardened, critical vuln, ssl, headers, console, reputation, banner, policy, alt, headings, names
	if len(recs) != 11 {
		t.Fatalf("Expected 11 recommendations, got %d: %+v", len(recs), recs)
	}

	for i := 1; i < len(recs); i++ {
		if recs[i-1].Severity.Rank() < recs[i].Severity.Rank() {
			t.Fatalf("Recommendations not sorted at %d: %s before %s", i, recs[i-1].Severity, recs[i].Severity)
		}
	}

	// Ties keep rule order
	wantCritical := []string{"Critical vulnerabilities detected", "Invalid or missing SSL certificate", "Site flagged by reputation services"}
	for i, title := range wantCritical {
		if recs[i].Title != title {
			t.Errorf("recs[%d] = %q, want %q", i, recs[i].Title, title)
		}
	}
	if recs[len(recs)-1].Severity != SeverityLow {
		t.Errorf("Expected the hardened note last, got %+v", recs[len(recs)-1])
	}
}

func TestRecommendationsCleanSite(t *testing.T) {
	sec := SecurityResult{
		IsWordPress: true,
		SSL:         &SSLCertificate{Valid: true},
		Headers:     &SecurityHeaders{Score: 30, MaxScore: 30},
		Reputation:  []ReputationCheck{{Source: "api", Listed: false}},
	}
	gdpr := GDPRResult{HasCookieBanner: true, HasPrivacyPolicy: true}
	acc := AccessibilityResult{HeadingIssues: []string{}}

	recs := GenerateRecommendations(sec, gdpr, acc)
	if recs == nil {
		t.Fatal("Recommendations must never be nil")
	}
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations for a clean site, got %+v", recs)
	}
}

func TestRecommendationsPlatformNotDetected(t *testing.T) {
	recs := GenerateRecommendations(SecurityResult{}, GDPRResult{HasCookieBanner: true, HasPrivacyPolicy: true}, AccessibilityResult{})

	if len(recs) != 1 {
		t.Fatalf("Expected only the platform notice, got %+v", recs)
	}
	if recs[0].Severity != SeverityMedium || recs[0].Category != CategorySecurity {
		t.Errorf("Unexpected platform notice %+v", recs[0])
	}
}

func TestRecommendationsIgnoreNonCriticalVulnerabilities(t *testing.T) {
	sec := SecurityResult{
		IsWordPress:     true,
		Vulnerabilities: []Vulnerability{{Component: "WordPress core", Severity: SeverityHigh}},
	}
	recs := GenerateRecommendations(sec, GDPRResult{HasCookieBanner: true, HasPrivacyPolicy: true}, AccessibilityResult{})

	for _, r := range recs {
		if r.Severity == SeverityCritical {
			t.Errorf("Unexpected critical recommendation %+v", r)
		}
	}
}
