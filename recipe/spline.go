package recipe

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/amesfit/amesfit/core/model"
	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
)

// StepNaturalSpline replaces a numeric column with a natural cubic spline
// basis expansion of df columns, named "col_ns_1" through "col_ns_df".
// Knots are placed at evenly spaced quantiles of the training data with the
// boundary knots at its min and max; beyond the boundaries the basis is
// linear, which keeps extrapolation on new data tame.
type StepNaturalSpline struct {
	model.BaseEstimator
	column string
	df     int
	knots  []float64 // all knots, boundary knots first and last
}

// NaturalSpline creates a spline step for one column with df basis
// functions. df must be at least 2.
func NaturalSpline(column string, df int) *StepNaturalSpline {
	return &StepNaturalSpline{column: column, df: df}
}

func (s *StepNaturalSpline) Name() string { return "natural_spline" }

func (s *StepNaturalSpline) Prep(tbl *dataset.Table) error {
	if s.df < 2 {
		return errors.NewValueError("StepNaturalSpline", fmt.Sprintf("df must be at least 2, got %d", s.df))
	}
	col, err := numericCol("StepNaturalSpline", tbl, s.column)
	if err != nil {
		return err
	}

	sorted := append([]float64(nil), col.Floats...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi <= lo {
		return errors.NewColumnError("StepNaturalSpline", s.column, "constant column")
	}

	// df basis functions need df+1 knots: the two boundaries plus df-1
	// interior knots at evenly spaced quantiles.
	knots := make([]float64, 0, s.df+1)
	knots = append(knots, lo)
	for k := 1; k < s.df; k++ {
		q := stat.Quantile(float64(k)/float64(s.df), stat.Empirical, sorted, nil)
		knots = append(knots, q)
	}
	knots = append(knots, hi)

	// Coincident knots make the basis degenerate.
	for i := 1; i < len(knots); i++ {
		if knots[i] <= knots[i-1] {
			return errors.NewColumnError("StepNaturalSpline", s.column,
				fmt.Sprintf("duplicate knots at %g; lower df below %d", knots[i], s.df))
		}
	}

	s.knots = knots
	s.SetFitted()
	return nil
}

func (s *StepNaturalSpline) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepNaturalSpline", "Bake")
	}
	col, err := numericCol("StepNaturalSpline", tbl, s.column)
	if err != nil {
		return nil, err
	}

	basisCols := make([]dataset.Column, s.df)
	for j := range basisCols {
		basisCols[j] = dataset.Column{
			Name:   fmt.Sprintf("%s_ns_%d", s.column, j+1),
			Kind:   dataset.Numeric,
			Floats: make([]float64, col.Len()),
		}
	}
	for i, x := range col.Floats {
		b := s.basis(x)
		for j := range basisCols {
			basisCols[j].Floats[i] = b[j]
		}
	}

	out, err := tbl.Drop(s.column)
	if err != nil {
		return nil, err
	}
	for _, c := range basisCols {
		if out, err = out.WithColumn(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Knots returns the learned knot sequence, boundary knots included.
func (s *StepNaturalSpline) Knots() []float64 {
	return append([]float64(nil), s.knots...)
}

// basis evaluates the df natural-spline basis functions at x, using the
// truncated-power construction: with K knots ξ₁ < … < ξ_K,
//
//	d_k(x) = ((x-ξ_k)₊³ − (x-ξ_K)₊³) / (ξ_K − ξ_k)
//
// and the basis is {x, d_1−d_{K-1}, …, d_{K-2}−d_{K-1}}, which is cubic
// between the boundaries and linear outside them.
func (s *StepNaturalSpline) basis(x float64) []float64 {
	k := len(s.knots)
	out := make([]float64, s.df)
	out[0] = x
	dLast := s.truncD(x, k-2)
	for j := 0; j < s.df-1; j++ {
		out[j+1] = s.truncD(x, j) - dLast
	}
	return out
}

func (s *StepNaturalSpline) truncD(x float64, kIdx int) float64 {
	k := len(s.knots)
	xi, xiK := s.knots[kIdx], s.knots[k-1]
	return (cubePlus(x-xi) - cubePlus(x-xiK)) / (xiK - xi)
}

func cubePlus(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(v, 3)
}
