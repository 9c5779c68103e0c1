package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// input types that never need a label
var unlabeledInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

// CountMissingAccessibleNames counts form controls, buttons and links that
// a screen reader would announce without a name.
func CountMissingAccessibleNames(doc *Document) int {
	labeled := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id := strings.TrimSpace(attrValue(s, "for")); id != "" {
			labeled[id] = true
		}
	})

	missing := 0

	doc.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "input" {
			inputType := strings.ToLower(strings.TrimSpace(attrValue(s, "type")))
			if unlabeledInputTypes[inputType] {
				return
			}
		}
		id := strings.TrimSpace(attrValue(s, "id"))
		if (id != "" && labeled[id]) || hasAriaName(s) {
			return
		}
		// wrapped by a label element
		if s.Closest("label").Length() > 0 {
			return
		}
		missing++
	})

	doc.Find("button").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" || hasAriaName(s) {
			return
		}
		missing++
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" || hasAriaName(s) {
			return
		}
		if strings.TrimSpace(attrValue(s, "title")) != "" {
			return
		}
		missing++
	})

	return missing
}

func hasAriaName(s *goquery.Selection) bool {
	return strings.TrimSpace(attrValue(s, "aria-label")) != "" ||
		strings.TrimSpace(attrValue(s, "aria-labelledby")) != ""
}
