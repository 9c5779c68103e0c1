package checker

// Severity ranks findings and recommendations
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordinal used for sorting: critical=4, high=3, medium=2, low=1.
// Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category names the analyzer a recommendation came from
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryGDPR          Category = "gdpr"
	CategoryAccessibility Category = "accessibility"
)

// AnalysisReport is the complete result of analyzing one page
type AnalysisReport struct {
	URL             string              `json:"url"`
	Timestamp       string              `json:"timestamp"` // RFC3339, UTC
	Security        SecurityResult      `json:"security"`
	GDPR            GDPRResult          `json:"gdpr"`
	Accessibility   AccessibilityResult `json:"accessibility"`
	OverallScore    int                 `json:"overallScore"`
	Grade           string              `json:"grade"`
	Scores          CategoryScores      `json:"scores"`
	Recommendations []Recommendation    `json:"recommendations"`
}

// CategoryScores repeats the three category scores for quick access
type CategoryScores struct {
	Security      int `json:"security"`
	GDPR          int `json:"gdpr"`
	Accessibility int `json:"accessibility"`
}

// SecurityResult holds the platform detection outcome and the auxiliary
// header, TLS, script and reputation findings.
type SecurityResult struct {
	IsWordPress     bool              `json:"isWordPress"`
	DetectionMethod string            `json:"detectionMethod"`
	IsHardened      bool              `json:"isHardened"`
	Version         string            `json:"version,omitempty"`
	Plugins         []Component       `json:"plugins"`
	Themes          []Component       `json:"themes"`
	Vulnerabilities []Vulnerability   `json:"vulnerabilities"`
	SSL             *SSLCertificate   `json:"ssl,omitempty"`
	Headers         *SecurityHeaders  `json:"headers,omitempty"`
	ConsoleWarnings []ConsoleWarning  `json:"consoleWarnings"`
	Reputation      []ReputationCheck `json:"reputation"`
	Score           int               `json:"score"`
	PostureScore    int               `json:"postureScore"` // headers/TLS/scripts/reputation, not part of Score
}

// Component is a plugin or theme identified from asset paths
type Component struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Version string `json:"version,omitempty"`
}

// Vulnerability is a known issue matched against the detected platform or a plugin
type Vulnerability struct {
	Component   string   `json:"component"`
	Version     string   `json:"version,omitempty"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// SSLCertificate summarizes the TLS state of the fetched page
type SSLCertificate struct {
	Valid         bool   `json:"valid"`
	Protocol      string `json:"protocol,omitempty"` // e.g. "TLS1.3"
	Issuer        string `json:"issuer,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"` // RFC3339
	DaysRemaining int    `json:"daysRemaining,omitempty"`
	Error         string `json:"error,omitempty"`
}

// HeaderCheck is the presence of one security response header
type HeaderCheck struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
	Value   string `json:"value,omitempty"`
}

// SecurityHeaders holds the header sub-score
type SecurityHeaders struct {
	Checks   []HeaderCheck `json:"checks"`
	Score    int           `json:"score"`
	MaxScore int           `json:"maxScore"`
	Probed   bool          `json:"probed"` // false when no header set could be obtained
}

// ConsoleWarning is a script or content issue a browser console would surface
type ConsoleWarning struct {
	Type     string   `json:"type"` // mixed-content, eval, inline-script, outdated-library
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ReputationCheck is the answer of one reputation source
type ReputationCheck struct {
	Source string `json:"source"`
	Listed bool   `json:"listed"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GDPRResult holds the privacy compliance findings
type GDPRResult struct {
	HasCookieBanner       bool      `json:"hasCookieBanner"`
	HasPrivacyPolicy      bool      `json:"hasPrivacyPolicy"`
	PrivacyPolicyInFooter bool      `json:"privacyPolicyInFooter"`
	Trackers              []Tracker `json:"trackers"`
	Score                 int       `json:"score"`
}

// Tracker is one catalog entry and whether it was found on the page
type Tracker struct {
	Name     string `json:"name"`
	Category string `json:"category"` // analytics, advertising, social, other
	Detected bool   `json:"detected"`
}

// AccessibilityResult holds the accessibility findings
type AccessibilityResult struct {
	MissingAltImages       int      `json:"missingAltImages"`
	HeadingIssues          []string `json:"headingIssues"`
	MissingAccessibleNames int      `json:"missingAccessibleNames"`
	Score                  int      `json:"score"`
}

// Recommendation is one prioritized action item
type Recommendation struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
}
