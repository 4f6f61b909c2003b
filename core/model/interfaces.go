package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for estimators trained on a design matrix and a
// response vector.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for fitted estimators that produce predictions.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a goodness-of-fit
// score.
type Scorer interface {
	// Score returns the coefficient of determination R² of the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces a regression model satisfies.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// Transformer is the interface for matrix-to-matrix preprocessing steps.
type Transformer interface {
	// Fit learns the parameters the transform needs.
	Fit(X mat.Matrix) error

	// Transform applies the learned transform to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit then Transform on the same data.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter is the interface for models that expose their
// hyperparameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
