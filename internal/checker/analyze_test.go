package checker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"
)

// Sample WordPress page with a mix of findings in every category
const sampleHTML = `
<!DOCTYPE html>
<html>
<head>
	<meta name="generator" content="WordPress 5.9">
	<link rel="https://api.w.org/" href="https://example.com/wp-json/">
	<link rel="stylesheet" href="https://example.com/wp-content/themes/astra/style.css">
	<link rel="stylesheet" href="https://example.com/wp-content/plugins/revslider/public/rs6.css">
	<script src="https://example.com/wp-includes/js/jquery/jquery.min.js?ver=3.6.0"></script>
	<script src="https://www.googletagmanager.com/gtag/js?id=G-XYZ"></script>
	<script>gtag('config', 'G-XYZ');</script>
	<script src="https://connect.facebook.net/en_US/fbevents.js"></script>
</head>
<body class="home wp-custom-logo">
	<h1>Welcome</h1>
	<h3>Latest posts</h3>
	<img src="/a.jpg">
	<img src="/b.jpg" alt="Sunset over the lake">
	<form><input type="text" name="s"><button></button></form>
	<footer><a href="/privacy-policy">Privacy</a></footer>
</body>
</html>
`

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func BenchmarkAnalyzeDocument(b *testing.B) {
	headers := http.Header{}
	headers.Set("X-Frame-Options", "SAMEORIGIN")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AnalyzeDocument(Input{URL: "https://example.com", HTML: sampleHTML, Headers: headers, Now: fixedNow})
	}
}

func TestAnalyzeDocument(t *testing.T) {
	report := AnalyzeDocument(Input{URL: "https://example.com", HTML: sampleHTML, Now: fixedNow})

	if report.Timestamp != "2026-05-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp %q", report.Timestamp)
	}
	if !report.Security.IsWordPress || report.Security.IsHardened {
		t.Errorf("Expected standard WordPress detection, got %q", report.Security.DetectionMethod)
	}
	if len(report.Security.Plugins) != 1 || report.Security.Plugins[0].Slug != "revslider" {
		t.Errorf("Unexpected plugins %+v", report.Security.Plugins)
	}
	if report.Security.Headers == nil || report.Security.Headers.Probed {
		t.Errorf("Expected an unprobed header finding, got %+v", report.Security.Headers)
	}
	if !report.GDPR.HasPrivacyPolicy || !report.GDPR.PrivacyPolicyInFooter {
		t.Error("Expected the footer privacy link to be found")
	}
	if report.Accessibility.MissingAltImages != 1 {
		t.Errorf("Expected 1 missing alt, got %d", report.Accessibility.MissingAltImages)
	}

	if report.Scores.Security != report.Security.Score ||
		report.Scores.GDPR != report.GDPR.Score ||
		report.Scores.Accessibility != report.Accessibility.Score {
		t.Errorf("Category scores out of sync: %+v", report.Scores)
	}
	want := OverallScore(report.Scores.Security, report.Scores.GDPR, report.Scores.Accessibility)
	if report.OverallScore != want || report.Grade != Grade(want) {
		t.Errorf("Overall = %d (%s), want %d", report.OverallScore, report.Grade, want)
	}

	for i := 1; i < len(report.Recommendations); i++ {
		if report.Recommendations[i-1].Severity.Rank() < report.Recommendations[i].Severity.Rank() {
			t.Fatalf("Recommendations not sorted at %d", i)
		}
	}
}

func TestAnalyzeDocumentIdempotent(t *testing.T) {
	headers := http.Header{}
	headers.Set("Content-Security-Policy", "default-src 'self'")
	in := Input{URL: "https://example.com", HTML: sampleHTML, Headers: headers, Now: fixedNow}

	first, err := json.Marshal(AnalyzeDocument(in))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := json.Marshal(AnalyzeDocument(in))
		if !bytes.Equal(first, again) {
			t.Fatalf("Run %d produced a different report", i)
		}
	}
}

func TestAnalyzeDocumentMalformedHTML(t *testing.T) {
	inputs := []string{
		"",
		"<<<>>>",
		"<html><body><div><p>unclosed",
		"<img alt=",
		strings.Repeat("<div>", 500),
	}

	for _, html := range inputs {
		report := AnalyzeDocument(Input{URL: "https://example.com", HTML: html, Now: fixedNow})
		if report == nil {
			t.Fatalf("Expected a report for %q", html)
		}
		if report.Recommendations == nil {
			t.Errorf("Recommendations must not be nil for %q", html)
		}
		if len(report.GDPR.Trackers) == 0 {
			t.Errorf("Expected the full tracker list for %q", html)
		}
	}
}

func TestReportJSONShape(t *testing.T) {
	report := AnalyzeDocument(Input{URL: "https://example.com", HTML: "<html></html>", Now: fixedNow})

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"url", "timestamp", "security", "gdpr", "accessibility", "overallScore", "grade", "scores", "recommendations"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Missing key %q in report JSON", key)
		}
	}
	if decoded["recommendations"] == nil {
		t.Error("recommendations must serialize as an array")
	}
}
