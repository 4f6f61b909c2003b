// Package linear implements ordinary least squares regression with the
// inference statistics the study workflow reports: coefficient standard
// errors, t and F statistics, R², AIC and BIC. Models can be fitted either
// from an explicit design matrix or from a formula over a dataset.Table.
package linear

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/amesfit/amesfit/core/model"
	"github.com/amesfit/amesfit/core/parallel"
	"github.com/amesfit/amesfit/pkg/errors"
)

// Regression is an ordinary least squares linear model.
type Regression struct {
	model.BaseEstimator

	fitIntercept bool

	// Learned parameters.
	coef      []float64
	intercept float64

	// Feature names; synthesized as x0, x1, ... for matrix fits, term and
	// dummy names for formula fits.
	featureNames []string

	// Inference statistics captured at fit time.
	nObs     int
	nParams  int
	stdErrs  []float64 // aligned with [intercept?, coef...]
	rss      float64
	tss      float64
	sigma    float64
	rsquared float64

	// Formula-fit state; nil for matrix fits.
	schema *designSchema
}

// Option configures a Regression before fitting.
type Option func(*Regression)

// WithIntercept sets whether an intercept term is estimated. Default true.
func WithIntercept(fit bool) Option {
	return func(r *Regression) {
		r.fitIntercept = fit
	}
}

// WithFeatureNames sets the reported names of the design columns for a
// matrix fit. Names are synthesized as x0, x1, ... when not provided.
func WithFeatureNames(names ...string) Option {
	return func(r *Regression) {
		r.featureNames = append([]string(nil), names...)
	}
}

// NewRegression creates an unfitted Regression.
func NewRegression(options ...Option) *Regression {
	r := &Regression{fitIntercept: true}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Fit estimates the coefficients by least squares. X is n×p, y is n×1.
func (r *Regression) Fit(X, y mat.Matrix) error {
	n, p := X.Dims()
	ny, py := y.Dims()

	if n == 0 || p == 0 {
		return errors.NewModelError("Regression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ny != n {
		return errors.NewDimensionError("Regression.Fit", n, ny, 0)
	}
	if py != 1 {
		return errors.NewValueError("Regression.Fit", "y must be a column vector")
	}

	nParams := p
	if r.fitIntercept {
		nParams++
	}
	if n <= nParams {
		return errors.NewValueError("Regression.Fit", "need more rows than parameters for least squares")
	}

	// Missing values would otherwise surface as a misleading
	// singular-matrix failure from the QR solve.
	for i := 0; i < n; i++ {
		if math.IsNaN(y.At(i, 0)) {
			return errors.NewValueError("Regression.Fit", "y contains missing values")
		}
		for j := 0; j < p; j++ {
			if math.IsNaN(X.At(i, j)) {
				return errors.NewValueError("Regression.Fit", "X contains missing values")
			}
		}
	}

	design := r.augment(X)

	// QR solve is better conditioned than the normal equations.
	var qr mat.QR
	qr.Factorize(design)
	beta := mat.NewDense(nParams, 1, nil)
	if err := qr.SolveTo(beta, false, denseCopy(y)); err != nil {
		return errors.NewModelError("Regression.Fit", "singular design matrix", errors.ErrSingularMatrix)
	}

	// Split intercept from slopes.
	offset := 0
	if r.fitIntercept {
		r.intercept = beta.At(0, 0)
		offset = 1
	} else {
		r.intercept = 0
	}
	r.coef = make([]float64, p)
	for j := 0; j < p; j++ {
		r.coef[j] = beta.At(j+offset, 0)
	}

	if r.schema == nil && len(r.featureNames) != p {
		r.featureNames = defaultNames(p)
	}

	r.nObs = n
	r.nParams = nParams
	if err := r.computeFitStats(design, y, beta); err != nil {
		return err
	}

	r.SetFitted()
	return nil
}

// computeFitStats fills in residual and coefficient inference statistics.
func (r *Regression) computeFitStats(design *mat.Dense, y mat.Matrix, beta *mat.Dense) error {
	n := r.nObs

	var fitted mat.Dense
	fitted.Mul(design, beta)

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(n)

	r.rss, r.tss = 0, 0
	for i := 0; i < n; i++ {
		resid := y.At(i, 0) - fitted.At(i, 0)
		dev := y.At(i, 0) - yMean
		r.rss += resid * resid
		r.tss += dev * dev
	}

	dfResid := n - r.nParams
	r.sigma = math.Sqrt(r.rss / float64(dfResid))
	if r.tss > 0 {
		r.rsquared = 1 - r.rss/r.tss
	} else {
		r.rsquared = math.NaN()
	}

	// Coefficient covariance: sigma² (XᵀX)⁻¹.
	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return errors.NewModelError("Regression.Fit", "singular design matrix", errors.ErrSingularMatrix)
	}

	r.stdErrs = make([]float64, r.nParams)
	s2 := r.rss / float64(dfResid)
	for j := 0; j < r.nParams; j++ {
		r.stdErrs[j] = math.Sqrt(s2 * xtxInv.At(j, j))
	}
	return nil
}

// Predict returns the fitted values for X as an n×1 matrix.
func (r *Regression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "Predict")
	}
	n, p := X.Dims()
	if p != len(r.coef) {
		return nil, errors.NewDimensionError("Regression.Predict", len(r.coef), p, 1)
	}

	predictions := mat.NewDense(n, 1, nil)
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := r.intercept
			for j := 0; j < p; j++ {
				pred += X.At(i, j) * r.coef[j]
			}
			predictions.Set(i, 0, pred)
		}
	})
	return predictions, nil
}

// Score returns the coefficient of determination R² on X, y.
func (r *Regression) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("Regression", "Score")
	}
	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	n, _ := y.Dims()
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		dev := y.At(i, 0) - yMean
		resid := y.At(i, 0) - yPred.At(i, 0)
		tss += dev * dev
		rss += resid * resid
	}
	if tss == 0 {
		return 0, errors.NewValueError("Regression.Score", "no variance in y")
	}
	return 1 - rss/tss, nil
}

// Coefficients returns a copy of the fitted slope coefficients.
func (r *Regression) Coefficients() []float64 {
	return append([]float64(nil), r.coef...)
}

// Intercept returns the fitted intercept (0 when disabled).
func (r *Regression) Intercept() float64 {
	return r.intercept
}

// FeatureNames returns the design-column names the model was fitted on.
func (r *Regression) FeatureNames() []string {
	return append([]string(nil), r.featureNames...)
}

// GetParams returns the model's hyperparameters.
func (r *Regression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": r.fitIntercept,
	}
}

// augment prepends the intercept column when enabled.
func (r *Regression) augment(X mat.Matrix) *mat.Dense {
	n, p := X.Dims()
	if !r.fitIntercept {
		return denseCopy(X)
	}
	out := mat.NewDense(n, p+1, nil)
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1)
			for j := 0; j < p; j++ {
				out.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return out
}

func denseCopy(m mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(m)
}

func defaultNames(p int) []string {
	names := make([]string, p)
	for j := range names {
		names[j] = "x" + strconv.Itoa(j)
	}
	return names
}

// tDist returns the Student's t distribution for the residual degrees of
// freedom of the fit.
func (r *Regression) tDist() distuv.StudentsT {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(r.nObs - r.nParams)}
}
