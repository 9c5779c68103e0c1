// Package report renders an analysis report as Markdown, HTML, PDF or plain text.
package report

import (
	"fmt"
	"strings"

	"github.com/olegrjumin/siteaudit/internal/checker"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "|", `\|`, "#", `\#`,
)

// escape makes page-derived text inert inside Markdown
func escape(s string) string {
	return mdEscaper.Replace(s)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Markdown renders the report as a Markdown document
func Markdown(r *checker.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Site audit: %s\n\n", escape(r.URL))
	fmt.Fprintf(&b, "Generated %s\n\n", r.Timestamp)
	fmt.Fprintf(&b, "**Overall score:** %d/100 (grade %s)\n\n", r.OverallScore, r.Grade)

	b.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Security | %d |\n", r.Scores.Security)
	fmt.Fprintf(&b, "| GDPR | %d |\n", r.Scores.GDPR)
	fmt.Fprintf(&b, "| Accessibility | %d |\n\n", r.Scores.Accessibility)

	writeSecurity(&b, r.Security)
	writeGDPR(&b, r.GDPR)
	writeAccessibility(&b, r.Accessibility)
	writeRecommendations(&b, r.Recommendations)

	return b.String()
}

func writeSecurity(b *strings.Builder, sec checker.SecurityResult) {
	b.WriteString("## Security\n\n")
	fmt.Fprintf(b, "- WordPress detected: %s\n", yesNo(sec.IsWordPress))
	fmt.Fprintf(b, "- Detection: %s\n", escape(sec.DetectionMethod))
	if sec.Version != "" {
		fmt.Fprintf(b, "- Version: %s\n", escape(sec.Version))
	}
	if len(sec.Plugins) > 0 {
		fmt.Fprintf(b, "- Plugins: %s\n", componentList(sec.Plugins))
	}
	if len(sec.Themes) > 0 {
		fmt.Fprintf(b, "- Themes: %s\n", componentList(sec.Themes))
	}
	if sec.SSL != nil {
		if sec.SSL.Valid {
			fmt.Fprintf(b, "- TLS: valid, %s, issued by %s, %d days remaining\n",
				escape(sec.SSL.Protocol), escape(sec.SSL.Issuer), sec.SSL.DaysRemaining)
		} else {
			fmt.Fprintf(b, "- TLS: invalid (%s)\n", escape(sec.SSL.Error))
		}
	}
	if sec.Headers != nil && sec.Headers.Probed {
		fmt.Fprintf(b, "- Security headers: %d/%d\n", sec.Headers.Score, sec.Headers.MaxScore)
		if missing := sec.Headers.MissingHeaders(); len(missing) > 0 {
			fmt.Fprintf(b, "- Missing headers: %s\n", escape(strings.Join(missing, ", ")))
		}
	}
	for _, rep := range sec.Reputation {
		status := "not listed"
		switch {
		case rep.Error != "":
			status = "unavailable"
		case rep.Listed:
			status = "LISTED"
		}
		fmt.Fprintf(b, "- Reputation %s: %s\n", escape(rep.Source), status)
	}
	fmt.Fprintf(b, "- Score: %d (posture %d)\n\n", sec.Score, sec.PostureScore)

	if len(sec.Vulnerabilities) > 0 {
		b.WriteString("### Vulnerabilities\n\n")
		for _, v := range sec.Vulnerabilities {
			fmt.Fprintf(b, "- **%s** %s: %s\n", v.Severity, escape(v.Component), escape(v.Description))
		}
		b.WriteString("\n")
	}
	if len(sec.ConsoleWarnings) > 0 {
		b.WriteString("### Script warnings\n\n")
		for _, w := range sec.ConsoleWarnings {
			fmt.Fprintf(b, "- **%s** %s\n", w.Severity, escape(w.Message))
		}
		b.WriteString("\n")
	}
}

func writeGDPR(b *strings.Builder, g checker.GDPRResult) {
	b.WriteString("## GDPR\n\n")
	fmt.Fprintf(b, "- Cookie consent banner: %s\n", yesNo(g.HasCookieBanner))
	fmt.Fprintf(b, "- Privacy policy: %s", yesNo(g.HasPrivacyPolicy))
	if g.PrivacyPolicyInFooter {
		b.WriteString(" (in footer)")
	}
	b.WriteString("\n")

	var detected []string
	for _, t := range g.Trackers {
		if t.Detected {
			detected = append(detected, fmt.Sprintf("%s (%s)", escape(t.Name), t.Category))
		}
	}
	if len(detected) > 0 {
		fmt.Fprintf(b, "- Trackers: %s\n", strings.Join(detected, ", "))
	} else {
		b.WriteString("- Trackers: none detected\n")
	}
	fmt.Fprintf(b, "- Score: %d\n\n", g.Score)
}

func writeAccessibility(b *strings.Builder, a checker.AccessibilityResult) {
	b.WriteString("## Accessibility\n\n")
	fmt.Fprintf(b, "- Images missing alt text: %d\n", a.MissingAltImages)
	fmt.Fprintf(b, "- Controls without accessible names: %d\n", a.MissingAccessibleNames)
	for _, issue := range a.HeadingIssues {
		fmt.Fprintf(b, "- Heading: %s\n", escape(issue))
	}
	fmt.Fprintf(b, "- Score: %d\n\n", a.Score)
}

func writeRecommendations(b *strings.Builder, recs []checker.Recommendation) {
	b.WriteString("## Recommendations\n\n")
	if len(recs) == 0 {
		b.WriteString("No issues found.\n")
		return
	}
	for i, rec := range recs {
		fmt.Fprintf(b, "%d. **[%s] %s** (%s): %s *Action:* %s\n",
			i+1, rec.Severity, escape(rec.Title), rec.Category, escape(rec.Description), escape(rec.Action))
	}
}

func componentList(components []checker.Component) string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		name := c.Name
		if c.Version != "" {
			name += " " + c.Version
		}
		names = append(names, escape(name))
	}
	return strings.Join(names, ", ")
}
