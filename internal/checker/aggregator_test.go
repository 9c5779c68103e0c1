package checker

import (
	"math"
	"testing"
)

func TestOverallScoreExample(t *testing.T) {
	overall := OverallScore(90, 80, 70)
	if overall != 83 {
		t.Errorf("Expected overall 83, got %d", overall)
	}
	if grade := Grade(overall); grade != "B" {
		t.Errorf("Expected grade B, got %s", grade)
	}
}

func TestOverallScoreBounds(t *testing.T) {
	if SecurityWeight+GDPRWeight+AccessibilityWeight != 1 {
		t.Fatal("Weights must sum to 1")
	}

	for s := 0; s <= 100; s += 7 {
		for g := 0; g <= 100; g += 11 {
			for a := 0; a <= 100; a += 13 {
				got := OverallScore(s, g, a)
				want := int(math.Round(float64(s)*SecurityWeight + float64(g)*GDPRWeight + float64(a)*AccessibilityWeight))
				if got != want || got < 0 || got > 100 {
					t.Fatalf("OverallScore(%d, %d, %d) = %d, want %d", s, g, a, got, want)
				}
			}
		}
	}

	if got := OverallScore(150, -20, 100); got < 0 || got > 100 {
		t.Errorf("Out of range inputs must still produce a bounded score, got %d", got)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A"}, {90, "A"}, {89, "B"}, {80, "B"}, {79, "C"},
		{70, "C"}, {69, "D"}, {60, "D"}, {59, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := Grade(tt.score); got != tt.want {
			t.Errorf("Grade(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, ColorGood}, {80, ColorGood}, {79, ColorWarning}, {60, ColorWarning}, {59, ColorBad},
	}
	for _, tt := range tests {
		if got := ScoreColor(tt.score); got != tt.want {
			t.Errorf("ScoreColor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
