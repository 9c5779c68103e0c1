package checker

import "github.com/olegrjumin/siteaudit/internal/catalog"

// Accessibility penalties: points per item and the cap applied before clamping
const (
	missingAltPenalty     = 5
	maxMissingAltPenalty  = 40
	headingPenalty        = 10
	maxHeadingPenalty     = 30
	missingNamePenalty    = 3
	maxMissingNamePenalty = 30
)

// AnalyzeAccessibility checks alt text, heading structure and accessible names
func AnalyzeAccessibility(doc *Document, _ Input) AccessibilityResult {
	cat := catalog.Default()

	result := AccessibilityResult{
		MissingAltImages:       CountMissingAlt(doc, cat.MeaninglessAlt),
		HeadingIssues:          CheckHeadingHierarchy(ExtractHeadings(doc)),
		MissingAccessibleNames: CountMissingAccessibleNames(doc),
	}
	result.Score = CalculateAccessibilityScore(result.MissingAltImages, len(result.HeadingIssues), result.MissingAccessibleNames)

	return result
}

// CalculateAccessibilityScore subtracts each capped penalty from 100
func CalculateAccessibilityScore(missingAlt, headingIssues, missingNames int) int {
	score := 100
	score -= cappedPenalty(missingAlt, missingAltPenalty, maxMissingAltPenalty)
	score -= cappedPenalty(headingIssues, headingPenalty, maxHeadingPenalty)
	score -= cappedPenalty(missingNames, missingNamePenalty, maxMissingNamePenalty)
	return clampScore(score)
}

func cappedPenalty(count, perItem, limit int) int {
	if count <= 0 {
		return 0
	}
	p := count * perItem
	if p > limit {
		return limit
	}
	return p
}
