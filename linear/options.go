package linear

import "log/slog"

// SelectorOption is a function that configures a StepwiseSelector.
type SelectorOption func(*StepwiseSelector)

// WithScoringThreshold sets the candidate count above which one backward
// step scores its removals in parallel. Scoring is read-only over X and y,
// so parallelism never changes the selected model.
func WithScoringThreshold(n int) SelectorOption {
	return func(s *StepwiseSelector) {
		s.scoringThreshold = n
	}
}

// WithSelectorLogger sets the logger used for per-step records.
func WithSelectorLogger(logger *slog.Logger) SelectorOption {
	return func(s *StepwiseSelector) {
		s.logger = logger
	}
}
