package checker

import (
	"strings"
	"testing"

	"github.com/olegrjumin/siteaudit/internal/catalog"
)

func TestGeneratorOnlyPage(t *testing.T) {
	doc := NewDocument(`<html><head><meta name="generator" content="WordPress 5.9"></head><body></body></html>`)

	result := AnalyzeSecurity(doc, Input{URL: "https://example.com"})

	if !result.IsWordPress {
		t.Fatal("Expected WordPress to be detected")
	}
	if result.IsHardened {
		t.Error("Expected isHardened=false, meta generator is an obvious signal")
	}
	if result.Version != "5.9" {
		t.Errorf("Expected version 5.9, got %q", result.Version)
	}
	if result.DetectionMethod != "Standard: meta generator" {
		t.Errorf("Unexpected detection method %q", result.DetectionMethod)
	}

	canned := false
	for _, v := range result.Vulnerabilities {
		if v.Version == "5.9" && strings.Contains(v.Description, "5.9.x") {
			canned = true
		}
	}
	if !canned {
		t.Errorf("Expected the 5.9 canned vulnerability, got %+v", result.Vulnerabilities)
	}
}

func TestHardenedDetection(t *testing.T) {
	doc := NewDocument(`<html><head>
		<link rel="https://api.w.org/" href="https://example.com/wp-json/">
		<link rel="pingback" href="https://example.com/xmlrpc.php">
	</head><body><p>Hello</p></body></html>`)

	result := AnalyzeSecurity(doc, Input{URL: "https://example.com"})

	if !result.IsWordPress {
		t.Error("Expected isWordPress=true")
	}
	if !result.IsHardened {
		t.Error("Expected isHardened=true")
	}
	if result.DetectionMethod != "Hardened: pingback link, REST API link" {
		t.Errorf("Unexpected detection method %q", result.DetectionMethod)
	}
}

func TestHardenedFlag(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantDetected bool
		wantHardened bool
	}{
		{
			name:         "no signals",
			html:         `<html><body><p>plain page</p></body></html>`,
			wantDetected: false,
			wantHardened: false,
		},
		{
			name:         "obvious only",
			html:         `<html><head><link rel="stylesheet" href="/wp-content/themes/astra/style.css"></head></html>`,
			wantDetected: true,
			wantHardened: false,
		},
		{
			name:         "obvious and subtle",
			html:         `<html><head><script src="/wp-includes/js/jquery.js"></script><link rel="shortlink" href="https://example.com/?p=12"></head></html>`,
			wantDetected: true,
			wantHardened: false,
		},
		{
			name:         "subtle body class",
			html:         `<html><body class="home page-template-default"></body></html>`,
			wantDetected: true,
			wantHardened: true,
		},
		{
			name:         "subtle comment",
			html:         `<html><body><!-- cached by a WordPress plugin --></body></html>`,
			wantDetected: true,
			wantHardened: true,
		},
		{
			name:         "admin bar",
			html:         `<html><body><div id="wpadminbar"></div></body></html>`,
			wantDetected: true,
			wantHardened: false,
		},
		{
			name:         "login form",
			html:         `<html><body><form action="/wp-login.php" method="post"></form></body></html>`,
			wantDetected: true,
			wantHardened: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectPlatform(NewDocument(tt.html))
			if got.Detected != tt.wantDetected {
				t.Errorf("Detected = %v, want %v (fired %v)", got.Detected, tt.wantDetected, got.Fired)
			}
			if got.Hardened != tt.wantHardened {
				t.Errorf("Hardened = %v, want %v (fired %v)", got.Hardened, tt.wantHardened, got.Fired)
			}
			if !got.Detected && got.Method != "Not detected" {
				t.Errorf("Method = %q, want Not detected", got.Method)
			}
		})
	}
}

func TestExtractPlatformVersionFallback(t *testing.T) {
	doc := NewDocument(`<html><head>
		<script src="/wp-includes/js/wp-emoji-release.min.js?ver=6.2.1"></script>
	</head></html>`)

	if v := ExtractPlatformVersion(doc); v != "6.2.1" {
		t.Errorf("Expected version 6.2.1 from asset, got %q", v)
	}

	doc = NewDocument(`<html><head><script src="/wp-content/plugins/x/a.js?ver=2.0"></script></head></html>`)
	if v := ExtractPlatformVersion(doc); v != "" {
		t.Errorf("Plugin asset version must not be used, got %q", v)
	}
}

func TestExtractComponents(t *testing.T) {
	doc := NewDocument(`<html><head>
		<link rel="stylesheet" href="/wp-content/plugins/contact-form-7/includes/css/styles.css">
		<script src="/wp-content/plugins/contact-form-7/includes/js/index.js"></script>
		<script src="/wp-content/plugins/revslider/public/js/rs6.min.js"></script>
		<link rel="stylesheet" href="/wp-content/themes/twentytwentyone/style.css">
	</head></html>`)

	plugins, themes := ExtractComponents(doc)

	if len(plugins) != 2 {
		t.Fatalf("Expected 2 unique plugins, got %d: %+v", len(plugins), plugins)
	}
	if plugins[0].Slug != "contact-form-7" || plugins[0].Name != "Contact Form 7" {
		t.Errorf("Unexpected first plugin %+v", plugins[0])
	}
	if plugins[0].Version != "" {
		t.Errorf("Plugin version must stay unset, got %q", plugins[0].Version)
	}
	if len(themes) != 1 || themes[0].Name != "Twentytwentyone" {
		t.Errorf("Unexpected themes %+v", themes)
	}
}

func TestFindVulnerabilities(t *testing.T) {
	sec := catalog.Default().Security

	vulns := FindVulnerabilities("6.5", []Component{{Name: "Wp File Manager", Slug: "wp-file-manager"}}, sec)
	if len(vulns) != 1 || vulns[0].Severity != SeverityCritical {
		t.Errorf("Expected a single critical plugin vulnerability, got %+v", vulns)
	}

	vulns = FindVulnerabilities("6.0", nil, sec)
	if len(vulns) != 1 || vulns[0].Severity != SeverityHigh {
		t.Errorf("Expected the floor rule to flag 6.0 as high, got %+v", vulns)
	}

	vulns = FindVulnerabilities("", nil, sec)
	if len(vulns) != 0 {
		t.Errorf("Expected no vulnerabilities without a version, got %+v", vulns)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"5.9", "6.4", -1},
		{"6.4", "6.4.0", 0},
		{"6.10", "6.4", 1},
		{"3.4.1", "3.5.0", -1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSecurityScore(t *testing.T) {
	if got := CalculateSecurityScore(false, false, "", nil); got != neutralPlatformScore {
		t.Errorf("Not detected score = %d, want %d", got, neutralPlatformScore)
	}

	if got := CalculateSecurityScore(true, true, "6.5", nil); got != 95 {
		t.Errorf("Hardened score = %d, want 95", got)
	}

	if got := CalculateSecurityScore(true, false, "", nil); got != 70 {
		t.Errorf("Unknown version score = %d, want 70", got)
	}

	many := make([]Vulnerability, 20)
	for i := range many {
		many[i].Severity = SeverityCritical
	}
	if got := CalculateSecurityScore(true, false, "4.7", many); got != 0 {
		t.Errorf("Expected score clamped to 0, got %d", got)
	}
}
