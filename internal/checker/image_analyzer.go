package checker

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CountMissingAlt counts images whose alternative text is absent,
// whitespace-only or meaningless. Decorative images (role presentation/none
// or an explicitly empty alt) are skipped.
func CountMissingAlt(doc *Document, meaningless []*regexp.Regexp) int {
	missing := 0

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		role := strings.ToLower(strings.TrimSpace(attrValue(s, "role")))
		if role == "presentation" || role == "none" {
			return
		}

		alt, hasAlt := s.Attr("alt")
		if hasAlt && alt == "" {
			// Deliberately empty alt marks a decorative image
			return
		}

		trimmed := strings.TrimSpace(alt)
		if !hasAlt || trimmed == "" || isMeaninglessAlt(trimmed, meaningless) {
			missing++
		}
	})

	return missing
}

func isMeaninglessAlt(alt string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(alt) {
			return true
		}
	}
	return false
}
