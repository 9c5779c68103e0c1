package service

import (
	"context"

	"github.com/olegrjumin/siteaudit/internal/checker"
)

// AnalyzeStreaming runs an analysis and emits each completed stage.
// The channel ends with a complete or error stage and is then closed.
// Stages are dropped once ctx is done.
func (s *Service) AnalyzeStreaming(ctx context.Context, url string) <-chan checker.Stage {
	stages := make(chan checker.Stage, 10)

	go func() {
		defer close(stages)

		send := func(st checker.Stage) {
			select {
			case stages <- st:
			case <-ctx.Done():
			}
		}

		terminal := false
		opts := s.options
		opts.Progress = func(st checker.Stage) {
			if st.Stage == checker.StageComplete || st.Stage == checker.StageError {
				terminal = true
			}
			send(st)
		}

		_, err := s.analyze(ctx, url, opts)
		// validation failures return before any stage is emitted
		if err != nil && !terminal {
			send(checker.Stage{
				Stage:   checker.StageError,
				Message: err.Error(),
				Data:    map[string]string{"url": url},
			})
		}
	}()

	return stages
}
