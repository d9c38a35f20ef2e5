package linear

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/mshiraki/cinefit/core/model"
	"github.com/mshiraki/cinefit/core/parallel"
	"github.com/mshiraki/cinefit/dataset"
	"github.com/mshiraki/cinefit/pkg/errors"
	"github.com/mshiraki/cinefit/pkg/log"
)

// Step records one committed removal of the backward elimination and the
// criterion of the model that resulted.
type Step struct {
	RemovedColumn string
	Criterion     float64
}

// StepwiseSelector simplifies a full OLS model by backward elimination:
// starting from all columns it repeatedly removes the single non-intercept
// column whose removal lowers the criterion the most, and stops when no
// removal improves it or only the intercept is left.
//
// Candidate removals within one step are scored in parallel when there are
// enough of them; the committed removal is decided by a sequential scan in
// fixed column order, so ties break deterministically regardless of how the
// scores were computed.
type StepwiseSelector struct {
	model.BaseEstimator

	scoringThreshold int
	logger           *slog.Logger

	best       *Model
	trajectory []Step
}

// NewStepwiseSelector creates a selector with default settings.
func NewStepwiseSelector(opts ...SelectorOption) *StepwiseSelector {
	s := &StepwiseSelector{
		scoringThreshold: 8,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit runs the backward elimination. The loop is bounded by p−1 removals and
// never reduces the model below the intercept alone.
func (s *StepwiseSelector) Fit(X *dataset.DesignMatrix, y *mat.VecDense) error {
	s.Reset()
	s.best = nil
	s.trajectory = nil

	current, err := Fit(X, y)
	if err != nil {
		return err
	}

	cols := X.Columns()
	indices := make([]int, len(cols))
	for j := range indices {
		indices[j] = j
	}

	for step := 1; len(indices) > 1; step++ {
		next, removedAt, err := s.bestRemoval(X, y, indices, current.criterion)
		if err != nil {
			return err
		}
		if next == nil {
			break
		}

		removed := cols[indices[removedAt]]
		s.trajectory = append(s.trajectory, Step{RemovedColumn: removed, Criterion: next.criterion})
		s.logger.Debug("removed column",
			log.ComponentKey, "linear",
			log.OperationKey, "eliminate",
			log.StepKey, step,
			log.RemovedColumnKey, removed,
			log.CriterionKey, next.criterion,
		)

		current = next
		indices = append(indices[:removedAt], indices[removedAt+1:]...)
	}

	s.best = current
	s.SetFitted()

	s.logger.Info("backward elimination finished",
		log.ComponentKey, "linear",
		log.OperationKey, "eliminate",
		log.ColumnsKey, len(current.columns),
		log.CriterionKey, current.criterion,
	)
	return nil
}

// bestRemoval scores every candidate removal and returns the refitted model
// of the best strictly-improving one, or nil when no removal improves on
// currentCriterion. removedAt is the position within indices.
func (s *StepwiseSelector) bestRemoval(X *dataset.DesignMatrix, y *mat.VecDense, indices []int, currentCriterion float64) (*Model, int, error) {
	type candidate struct {
		model *Model
		err   error
	}

	// Candidate c removes indices[c+1]; the intercept at position 0 is never
	// a candidate.
	cands := make([]candidate, len(indices)-1)
	parallel.ParallelizeWithThreshold(len(cands), s.scoringThreshold, func(start, end int) {
		for c := start; c < end; c++ {
			subset := make([]int, 0, len(indices)-1)
			for pos, j := range indices {
				if pos == c+1 {
					continue
				}
				subset = append(subset, j)
			}
			sub, err := X.Select(subset)
			if err != nil {
				cands[c] = candidate{err: err}
				continue
			}
			m, err := Fit(sub, y)
			cands[c] = candidate{model: m, err: err}
		}
	})

	cols := X.Columns()
	best := -1
	bestCriterion := currentCriterion
	for c, cand := range cands {
		if cand.err != nil {
			return nil, 0, errors.Wrapf(cand.err, "scoring removal of column %q", cols[indices[c+1]])
		}
		// Strict improvement only, scanned in fixed column order: among
		// exact ties the earliest column wins, which keeps elimination
		// reproducible no matter how the scores were computed.
		if cand.model.criterion < bestCriterion {
			bestCriterion = cand.model.criterion
			best = c
		}
	}

	if best < 0 {
		return nil, 0, nil
	}
	return cands[best].model, best + 1, nil
}

// Model returns the selected model.
func (s *StepwiseSelector) Model() (*Model, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepwiseSelector", "Model")
	}
	return s.best, nil
}

// Trajectory returns the sequence of committed removals and their criteria.
// The criterion values are non-increasing by construction.
func (s *StepwiseSelector) Trajectory() []Step {
	return append([]Step(nil), s.trajectory...)
}

// Eliminate fits the full model on X and simplifies it by backward
// elimination, returning the final model and the removal trajectory.
func Eliminate(X *dataset.DesignMatrix, y *mat.VecDense, opts ...SelectorOption) (*Model, []Step, error) {
	s := NewStepwiseSelector(opts...)
	if err := s.Fit(X, y); err != nil {
		return nil, nil, err
	}
	m, err := s.Model()
	if err != nil {
		return nil, nil, err
	}
	return m, s.Trajectory(), nil
}
