package checker

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Input is everything the analyzers look at for one page
type Input struct {
	URL      string
	FinalURL string // after redirects; empty means URL
	HTML     string
	Headers  http.Header          // HEAD probe or GET response headers; nil when unavailable
	TLS      *tls.ConnectionState // nil when unknown

	// Reputation holds the already collected reputation answers
	Reputation []ReputationCheck

	// Now stamps the report; zero means time.Now
	Now time.Time
}

// pageURL is the address the HTML was actually served from
func (in Input) pageURL() string {
	if in.FinalURL != "" {
		return in.FinalURL
	}
	return in.URL
}

func (in Input) now() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}

// Analyzer is the shape shared by the three category analyzers
type Analyzer[R any] func(doc *Document, in Input) R

var (
	_ Analyzer[SecurityResult]      = AnalyzeSecurity
	_ Analyzer[GDPRResult]          = AnalyzeGDPR
	_ Analyzer[AccessibilityResult] = AnalyzeAccessibility
)

// AnalyzeDocument runs the category analyzers over one parsed page and
// assembles the report. It performs no I/O.
func AnalyzeDocument(in Input) *AnalysisReport {
	return analyzeDocument(in, nil)
}

func analyzeDocument(in Input, progress emitter) *AnalysisReport {
	doc := NewDocument(in.HTML)
	stamp := in.now()
	in.Now = stamp

	var (
		security      SecurityResult
		gdpr          GDPRResult
		accessibility AccessibilityResult
		mu            sync.Mutex
	)
	emit := func(stage, message string, data interface{}) {
		mu.Lock()
		defer mu.Unlock()
		progress.emit(stage, message, data)
	}

	// The analyzers share only the read-only document
	var g errgroup.Group
	g.Go(func() error {
		security = AnalyzeSecurity(doc, in)
		emit(StageSecurity, "Security analysis complete", security)
		return nil
	})
	g.Go(func() error {
		gdpr = AnalyzeGDPR(doc, in)
		emit(StageGDPR, "Privacy analysis complete", gdpr)
		return nil
	})
	g.Go(func() error {
		accessibility = AnalyzeAccessibility(doc, in)
		emit(StageAccessibility, "Accessibility analysis complete", accessibility)
		return nil
	})
	_ = g.Wait()

	return BuildReport(in.URL, stamp, security, gdpr, accessibility)
}

// BuildReport aggregates the category results into a report
func BuildReport(pageURL string, at time.Time, security SecurityResult, gdpr GDPRResult, accessibility AccessibilityResult) *AnalysisReport {
	scores := CategoryScores{
		Security:      clampScore(security.Score),
		GDPR:          clampScore(gdpr.Score),
		Accessibility: clampScore(accessibility.Score),
	}
	overall := OverallScore(scores.Security, scores.GDPR, scores.Accessibility)

	return &AnalysisReport{
		URL:             pageURL,
		Timestamp:       at.UTC().Format(time.RFC3339),
		Security:        security,
		GDPR:            gdpr,
		Accessibility:   accessibility,
		OverallScore:    overall,
		Grade:           Grade(overall),
		Scores:          scores,
		Recommendations: GenerateRecommendations(security, gdpr, accessibility),
	}
}
