package checker

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Heading is one h1-h6 element in document order
type Heading struct {
	Level int
	Text  string
}

// ExtractHeadings collects h1-h6 in document order
func ExtractHeadings(doc *Document) []Heading {
	var headings []Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		headings = append(headings, Heading{
			Level: int(tag[1] - '0'),
			Text:  strings.TrimSpace(s.Text()),
		})
	})
	return headings
}

// CheckHeadingHierarchy returns one issue per structural problem, in order:
// no headings, missing or repeated H1, skipped levels, then empty headings.
func CheckHeadingHierarchy(headings []Heading) []string {
	issues := []string{}

	if len(headings) == 0 {
		issues = append(issues, "No headings found on the page")
	}

	h1Count := 0
	for _, h := range headings {
		if h.Level == 1 {
			h1Count++
		}
	}
	switch {
	case h1Count == 0:
		issues = append(issues, "No H1 heading found")
	case h1Count > 1:
		issues = append(issues, fmt.Sprintf("Multiple H1 headings found (%d)", h1Count))
	}

	for i := 1; i < len(headings); i++ {
		prev, cur := headings[i-1].Level, headings[i].Level
		if cur > prev+1 {
			issues = append(issues, fmt.Sprintf("Heading level skipped: H%d to H%d", prev, cur))
		}
	}

	for _, h := range headings {
		if h.Text == "" {
			issues = append(issues, fmt.Sprintf("Empty H%d heading", h.Level))
		}
	}

	return issues
}
