package linear

import (
	"bytes"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/amesfit/amesfit/pkg/errors"
)

const tol = 1e-9

func TestFitExactLine(t *testing.T) {
	// y = 1 + 2x, no noise.
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{1, 3, 5, 7})

	r := NewRegression()
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := r.Intercept(); math.Abs(got-1) > tol {
		t.Errorf("Intercept() = %g, want 1", got)
	}
	if got := r.Coefficients()[0]; math.Abs(got-2) > tol {
		t.Errorf("slope = %g, want 2", got)
	}

	pred, err := r.Predict(mat.NewDense(2, 1, []float64{10, -1}))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got := pred.At(0, 0); math.Abs(got-21) > tol {
		t.Errorf("Predict(10) = %g, want 21", got)
	}
	if got := pred.At(1, 0); math.Abs(got+1) > tol {
		t.Errorf("Predict(-1) = %g, want -1", got)
	}
}

func TestFitInference(t *testing.T) {
	// Textbook five-point example with hand-computed statistics.
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2, 4, 5, 4, 5})

	r := NewRegression()
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	coefs, err := r.Tidy()
	if err != nil {
		t.Fatalf("Tidy: %v", err)
	}
	if len(coefs) != 2 {
		t.Fatalf("Tidy returned %d rows, want 2", len(coefs))
	}

	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{name: "intercept", got: coefs[0].Estimate, want: 2.2, tol: 1e-9},
		{name: "slope", got: coefs[1].Estimate, want: 0.6, tol: 1e-9},
		{name: "slope std error", got: coefs[1].StdErr, want: math.Sqrt(0.8 / 10.0), tol: 1e-9},
		{name: "slope t statistic", got: coefs[1].Statistic, want: 0.6 / math.Sqrt(0.8/10.0), tol: 1e-9},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > c.tol {
			t.Errorf("%s = %.9g, want %.9g", c.name, c.got, c.want)
		}
	}
	if coefs[1].PValue < 0.10 || coefs[1].PValue > 0.15 {
		t.Errorf("slope p-value = %g, want ≈ 0.124", coefs[1].PValue)
	}

	glance, err := r.Glance()
	if err != nil {
		t.Fatalf("Glance: %v", err)
	}
	if math.Abs(glance.RSquared-0.6) > 1e-9 {
		t.Errorf("R² = %g, want 0.6", glance.RSquared)
	}
	if math.Abs(glance.AdjRSquared-(1-0.4*4.0/3.0)) > 1e-9 {
		t.Errorf("adj R² = %g, want %g", glance.AdjRSquared, 1-0.4*4.0/3.0)
	}
	if math.Abs(glance.Sigma-math.Sqrt(0.8)) > 1e-9 {
		t.Errorf("sigma = %g, want %g", glance.Sigma, math.Sqrt(0.8))
	}
	if math.Abs(glance.Statistic-4.5) > 1e-9 {
		t.Errorf("F = %g, want 4.5", glance.Statistic)
	}
	if math.Abs(glance.Deviance-2.4) > 1e-9 {
		t.Errorf("deviance = %g, want 2.4", glance.Deviance)
	}
	if glance.DFResidual != 3 || glance.NObs != 5 {
		t.Errorf("df.residual = %d, n = %d, want 3, 5", glance.DFResidual, glance.NObs)
	}
}

func TestFitWithoutIntercept(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	r := NewRegression(WithIntercept(false))
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := r.Intercept(); got != 0 {
		t.Errorf("Intercept() = %g, want 0", got)
	}
	if got := r.Coefficients()[0]; math.Abs(got-2) > tol {
		t.Errorf("slope = %g, want 2", got)
	}
}

func TestFitValidation(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
	}{
		{
			name: "row mismatch",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(2, 1, []float64{1, 2}),
		},
		{
			name: "y not a column vector",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
		},
		{
			name: "more parameters than rows",
			X:    mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
			y:    mat.NewDense(2, 1, []float64{1, 2}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewRegression().Fit(tt.X, tt.y); err == nil {
				t.Errorf("Fit() accepted invalid input")
			}
		})
	}
}

func TestFitRejectsMissingValues(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
	}{
		{
			name: "NaN in X",
			X:    mat.NewDense(5, 1, []float64{1, 2, math.NaN(), 4, 5}),
			y:    mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5}),
		},
		{
			name: "NaN in y",
			X:    mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5}),
			y:    mat.NewDense(5, 1, []float64{1, math.NaN(), 3, 4, 5}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegression().Fit(tt.X, tt.y)
			var ve *errors.ValueError
			if !errors.As(err, &ve) {
				t.Fatalf("Fit() error = %v, want ValueError", err)
			}
			if errors.Is(err, errors.ErrSingularMatrix) {
				t.Errorf("missing values reported as a singular matrix")
			}
		})
	}
}

func TestSingularDesign(t *testing.T) {
	// Second column duplicates the first.
	X := mat.NewDense(5, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4, 5, 5})
	y := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})

	err := NewRegression().Fit(X, y)
	if err == nil {
		t.Fatalf("Fit() accepted a singular design matrix")
	}
	if !errors.Is(err, errors.ErrSingularMatrix) {
		t.Errorf("error = %v, want ErrSingularMatrix in chain", err)
	}
}

func TestNotFitted(t *testing.T) {
	r := NewRegression()
	X := mat.NewDense(1, 1, []float64{1})

	var nfe *errors.NotFittedError
	if _, err := r.Predict(X); !errors.As(err, &nfe) {
		t.Errorf("Predict() error = %v, want NotFittedError", err)
	}
	if _, err := r.Tidy(); !errors.As(err, &nfe) {
		t.Errorf("Tidy() error = %v, want NotFittedError", err)
	}
	if _, err := r.Glance(); !errors.As(err, &nfe) {
		t.Errorf("Glance() error = %v, want NotFittedError", err)
	}
}

func TestSummaryRenders(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2, 4, 5, 4, 5})

	r := NewRegression()
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Summary(&buf); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"(Intercept)", "x0", "R²", "AIC"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}
