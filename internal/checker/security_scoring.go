package checker

// Platform score constants
const (
	neutralPlatformScore          = 75 // platform absent is not a security failure
	platformBaselineScore         = 80
	hardenedBonus                 = 15
	unknownVersionPenalty         = 10
	hardenedUnknownVersionPenalty = 5
)

// vulnerabilityPenalties is subtracted once per vulnerability
var vulnerabilityPenalties = map[Severity]int{
	SeverityCritical: 30,
	SeverityHigh:     20,
	SeverityMedium:   10,
	SeverityLow:      5,
}

// Posture sub-score weights (sum to 100)
const (
	postureTLSPoints        = 30
	postureConsolePoints    = 20
	postureReputationPoints = 20
	consoleHighPenalty      = 5
	consoleOtherPenalty     = 2
)

// CalculateSecurityScore scores the platform findings
func CalculateSecurityScore(detected, hardened bool, version string, vulns []Vulnerability) int {
	if !detected {
		return neutralPlatformScore
	}

	score := platformBaselineScore
	if hardened {
		score += hardenedBonus
	}

	for _, v := range vulns {
		score -= vulnerabilityPenalties[v.Severity]
	}

	if version == "" {
		if hardened {
			score -= hardenedUnknownVersionPenalty
		} else {
			score -= unknownVersionPenalty
		}
	}

	return clampScore(score)
}

// CalculatePostureScore sums the header, TLS, console and reputation
// sub-scores on their own scale. It is reported next to the platform score,
// never blended into it.
func CalculatePostureScore(r *SecurityResult) int {
	score := 0

	if r.Headers != nil {
		score += r.Headers.Score
	}

	if r.SSL != nil && r.SSL.Valid {
		score += postureTLSPoints
	}

	console := postureConsolePoints
	for _, w := range r.ConsoleWarnings {
		if w.Severity.Rank() >= SeverityHigh.Rank() {
			console -= consoleHighPenalty
		} else {
			console -= consoleOtherPenalty
		}
	}
	if console > 0 {
		score += console
	}

	if !anyListed(r.Reputation) {
		score += postureReputationPoints
	}

	return clampScore(score)
}

func anyListed(checks []ReputationCheck) bool {
	for _, c := range checks {
		if c.Listed {
			return true
		}
	}
	return false
}

// clampScore bounds a score to [0,100]
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
