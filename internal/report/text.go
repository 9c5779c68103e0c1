package report

import (
	"fmt"
	"strings"

	"github.com/olegrjumin/siteaudit/internal/checker"
)

// Text renders a compact plain-text summary
func Text(r *checker.AnalysisReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.URL)
	fmt.Fprintf(&b, "Overall: %d (%s)\n", r.OverallScore, r.Grade)
	fmt.Fprintf(&b, "  Security:      %d\n", r.Scores.Security)
	fmt.Fprintf(&b, "  GDPR:          %d\n", r.Scores.GDPR)
	fmt.Fprintf(&b, "  Accessibility: %d\n", r.Scores.Accessibility)
	if len(r.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  [%s] %s\n", rec.Severity, rec.Title)
		}
	}
	return b.String()
}
