package checker

import "math"

// Overall score weights (sum to 1)
const (
	SecurityWeight      = 0.5
	GDPRWeight          = 0.25
	AccessibilityWeight = 0.25
)

// Score color classes
const (
	ColorGood    = "good"
	ColorWarning = "warning"
	ColorBad     = "bad"
)

// OverallScore combines the category scores with the fixed weights
func OverallScore(security, gdpr, accessibility int) int {
	weighted := float64(clampScore(security))*SecurityWeight +
		float64(clampScore(gdpr))*GDPRWeight +
		float64(clampScore(accessibility))*AccessibilityWeight
	return clampScore(int(math.Round(weighted)))
}

// Grade maps a score to a letter grade
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// ScoreColor classifies a score as good, warning or bad
func ScoreColor(score int) string {
	switch {
	case score >= 80:
		return ColorGood
	case score >= 60:
		return ColorWarning
	default:
		return ColorBad
	}
}
