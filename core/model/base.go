// Package model defines the estimator and transformer contracts shared by
// the fitting and preprocessing packages.
package model

// FitState tracks whether an estimator has been fitted.
type FitState int

const (
	// NotFitted means Fit (or Prep) has not completed yet.
	NotFitted FitState = iota
	// Fitted means the estimator holds learned parameters.
	Fitted
)

// BaseEstimator is embedded by every estimator and transformer to carry the
// fitted-state flag.
type BaseEstimator struct {
	state FitState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
