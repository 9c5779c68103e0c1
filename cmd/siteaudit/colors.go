package main

import (
	"github.com/fatih/color"

	"github.com/olegrjumin/siteaudit/internal/checker"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

// colorScore colors a score by its good/warning/bad class
func colorScore(score int, text string) string {
	switch checker.ScoreColor(score) {
	case checker.ColorGood:
		return colorSuccess(text)
	case checker.ColorWarning:
		return colorWarn(text)
	default:
		return colorError(text)
	}
}

func colorSeverity(s checker.Severity) string {
	switch s {
	case checker.SeverityCritical, checker.SeverityHigh:
		return colorError(string(s))
	case checker.SeverityMedium:
		return colorWarn(string(s))
	default:
		return colorInfo(string(s))
	}
}
