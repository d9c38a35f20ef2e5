// Package model holds the fitted-state machinery shared by every estimator
// and transformer in cinefit.
package model

// EstimatorState represents the training state of an estimator.
type EstimatorState int

const (
	// NotFitted means the estimator has not been fitted.
	NotFitted EstimatorState = iota
	// Fitted means the estimator has been fitted.
	Fitted
)

// BaseEstimator is embedded by estimators and transformers to track whether
// Fit has run.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to its initial state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
