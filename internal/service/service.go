package service

import (
	"context"
	"errors"
	"time"

	"github.com/olegrjumin/siteaudit/internal/checker"
	"github.com/olegrjumin/siteaudit/internal/events"
	"github.com/olegrjumin/siteaudit/internal/logging"
)

// Analyzer runs one page analysis
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string, opts checker.Options) (*checker.AnalysisReport, error)
}

// Service provides the business logic layer for site audits
// It sits between the HTTP/CLI transport layers and the checker
type Service struct {
	analyzer Analyzer
	logger   *logging.Logger
	recorder events.Recorder
	options  checker.Options
	now      func() time.Time
}

// New creates a new Service instance. A nil recorder disables event recording.
func New(a Analyzer, logger *logging.Logger, recorder events.Recorder, opts checker.Options) *Service {
	return &Service{
		analyzer: a,
		logger:   logger,
		recorder: recorder,
		options:  opts,
		now:      time.Now,
	}
}

// Analyze audits one URL with the service defaults
func (s *Service) Analyze(ctx context.Context, url string) (*checker.AnalysisReport, error) {
	return s.analyze(ctx, url, s.options)
}

func (s *Service) analyze(ctx context.Context, url string, opts checker.Options) (*checker.AnalysisReport, error) {
	// The checker bounds the fetch itself; this caps the whole run
	// including the reputation lookups it waits for.
	ctx, cancel := context.WithTimeout(ctx, overallTimeout(opts))
	defer cancel()

	s.logger.Info("Analyzing URL", "url", url)
	start := s.now()

	report, err := s.analyzer.Analyze(ctx, url, opts)

	evt := events.New(url, start)
	evt.Duration = s.now().Sub(start)

	if err != nil {
		kind := ""
		var fetchErr *checker.FetchError
		if errors.As(err, &fetchErr) {
			kind = fetchErr.Kind
		}
		s.logger.Warn("Analysis failed", "url", url, "error", err, "kind", kind, "duration_ms", evt.Duration.Milliseconds())
		evt.Error = err.Error()
		s.record(evt)
		return nil, err
	}

	s.logger.Info("Analysis completed",
		"url", report.URL,
		"score", report.OverallScore,
		"grade", report.Grade,
		"recommendations", len(report.Recommendations),
		"duration_ms", evt.Duration.Milliseconds(),
	)
	evt.URL = report.URL
	evt.Success = true
	evt.Score = report.OverallScore
	evt.Grade = report.Grade
	s.record(evt)

	return report, nil
}

// record stores the event on a detached context so a cancelled request still counts
func (s *Service) record(evt events.Event) {
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.recorder.Record(ctx, evt); err != nil {
		s.logger.Error("Failed to record event", "event_id", evt.ID, "error", err)
	}
}

// RecentEvents returns the latest recorded analyses, newest first
func (s *Service) RecentEvents(ctx context.Context, n int) ([]events.Event, error) {
	if s.recorder == nil {
		return []events.Event{}, nil
	}
	return s.recorder.Recent(ctx, n)
}

func overallTimeout(opts checker.Options) time.Duration {
	d := opts.Timeout + opts.ReputationTimeout
	if d <= 0 {
		def := checker.DefaultOptions()
		d = def.Timeout + def.ReputationTimeout
	}
	return d
}
