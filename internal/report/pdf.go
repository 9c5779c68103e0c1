package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/olegrjumin/siteaudit/internal/checker"
)

// pageBreakY is where a new section moves to the next A4 page
const pageBreakY = 260

// PDF renders the report as an A4 document
func PDF(r *checker.AnalysisReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Site audit: "+r.URL), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr("Generated: "+r.Timestamp), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Overall score: %d/100 (grade %s)", r.OverallScore, r.Grade), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Security: %d | GDPR: %d | Accessibility: %d",
		r.Scores.Security, r.Scores.GDPR, r.Scores.Accessibility), "", 1, "", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(0, 8, title, "", 1, "", true, 0, "")
		pdf.SetFont("Arial", "", 9)
	}
	line := func(text string) {
		pdf.MultiCell(0, 5, tr(text), "", "", false)
	}

	sec := r.Security
	section("Security")
	line(fmt.Sprintf("WordPress detected: %s (%s)", yesNo(sec.IsWordPress), sec.DetectionMethod))
	if sec.Version != "" {
		line("Version: " + sec.Version)
	}
	if len(sec.Plugins) > 0 {
		line("Plugins: " + plainComponents(sec.Plugins))
	}
	if len(sec.Themes) > 0 {
		line("Themes: " + plainComponents(sec.Themes))
	}
	for _, v := range sec.Vulnerabilities {
		line(fmt.Sprintf("  - [%s] %s %s: %s", v.Severity, v.Component, v.Version, v.Description))
	}
	if sec.SSL != nil {
		if sec.SSL.Valid {
			line(fmt.Sprintf("TLS: valid, %s, issued by %s, %d days remaining", sec.SSL.Protocol, sec.SSL.Issuer, sec.SSL.DaysRemaining))
		} else {
			line(fmt.Sprintf("TLS: invalid (%s)", sec.SSL.Error))
		}
	}
	if sec.Headers != nil && sec.Headers.Probed {
		line(fmt.Sprintf("Security headers: %d/%d", sec.Headers.Score, sec.Headers.MaxScore))
		if missing := sec.Headers.MissingHeaders(); len(missing) > 0 {
			line("  Missing: " + strings.Join(missing, ", "))
		}
	}
	for _, rep := range sec.Reputation {
		status := "not listed"
		switch {
		case rep.Error != "":
			status = "unavailable"
		case rep.Listed:
			status = "LISTED " + rep.Detail
		}
		line(fmt.Sprintf("Reputation %s: %s", rep.Source, status))
	}
	line(fmt.Sprintf("Platform score: %d | Posture score: %d", sec.Score, sec.PostureScore))
	pdf.Ln(3)

	gdpr := r.GDPR
	section("GDPR")
	line("Cookie consent banner: " + yesNo(gdpr.HasCookieBanner))
	policy := yesNo(gdpr.HasPrivacyPolicy)
	if gdpr.PrivacyPolicyInFooter {
		policy += " (in footer)"
	}
	line("Privacy policy: " + policy)
	var trackers []string
	for _, t := range gdpr.Trackers {
		if t.Detected {
			trackers = append(trackers, fmt.Sprintf("%s (%s)", t.Name, t.Category))
		}
	}
	if len(trackers) > 0 {
		line("Trackers: " + strings.Join(trackers, ", "))
	}
	pdf.Ln(3)

	acc := r.Accessibility
	section("Accessibility")
	line(fmt.Sprintf("Images missing alt text: %d", acc.MissingAltImages))
	line(fmt.Sprintf("Controls without accessible names: %d", acc.MissingAccessibleNames))
	for _, issue := range acc.HeadingIssues {
		line("  - " + issue)
	}
	pdf.Ln(3)

	if len(r.Recommendations) > 0 {
		section("Recommendations")
		for _, rec := range r.Recommendations {
			if pdf.GetY() > 270 {
				pdf.AddPage()
			}
			pdf.SetFont("Arial", "B", 9)
			line(fmt.Sprintf("[%s] %s", rec.Severity, rec.Title))
			pdf.SetFont("Arial", "", 8)
			line(rec.Description)
			pdf.SetFont("Arial", "I", 8)
			line(rec.Action)
			pdf.Ln(1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func plainComponents(cs []checker.Component) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Version != "" {
			parts = append(parts, c.Name+" "+c.Version)
			continue
		}
		parts = append(parts, c.Name)
	}
	return strings.Join(parts, ", ")
}
