package recipe

import (
	"fmt"
	"math"

	"github.com/amesfit/amesfit/core/model"
	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
)

// StepLog replaces the named numeric columns with their natural
// logarithms. Values must be strictly positive.
type StepLog struct {
	model.BaseEstimator
	columns []string
}

// Log creates a StepLog over the named columns.
func Log(columns ...string) *StepLog {
	return &StepLog{columns: columns}
}

func (s *StepLog) Name() string { return "log" }

// Prep validates the columns; the transform itself is stateless.
func (s *StepLog) Prep(tbl *dataset.Table) error {
	for _, name := range s.columns {
		if _, err := numericCol("StepLog", tbl, name); err != nil {
			return err
		}
	}
	s.SetFitted()
	return nil
}

func (s *StepLog) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepLog", "Bake")
	}
	out := tbl
	for _, name := range s.columns {
		col, err := numericCol("StepLog", out, name)
		if err != nil {
			return nil, err
		}
		logged := dataset.Column{Name: name, Kind: dataset.Numeric, Floats: make([]float64, col.Len())}
		for i, v := range col.Floats {
			if v <= 0 {
				return nil, errors.NewValueError("StepLog", fmt.Sprintf("non-positive value %g at row %d of %q", v, i, name))
			}
			logged.Floats[i] = math.Log(v)
		}
		if out, err = out.WithColumn(logged); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// StepNormalize standardizes the named numeric columns to zero mean and
// unit variance, using the training-table statistics at bake time.
type StepNormalize struct {
	model.BaseEstimator
	columns []string
	means   map[string]float64
	scales  map[string]float64
}

// Normalize creates a StepNormalize over the named columns.
func Normalize(columns ...string) *StepNormalize {
	return &StepNormalize{columns: columns}
}

func (s *StepNormalize) Name() string { return "normalize" }

func (s *StepNormalize) Prep(tbl *dataset.Table) error {
	s.means = make(map[string]float64, len(s.columns))
	s.scales = make(map[string]float64, len(s.columns))
	for _, name := range s.columns {
		col, err := numericCol("StepNormalize", tbl, name)
		if err != nil {
			return err
		}
		mean := col.Mean()
		sd := col.StdDev()
		// Constant columns bake to zero rather than dividing by zero.
		if math.IsNaN(sd) || sd < 1e-8 {
			sd = 1
		}
		s.means[name] = mean
		s.scales[name] = sd
	}
	s.SetFitted()
	return nil
}

func (s *StepNormalize) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepNormalize", "Bake")
	}
	out := tbl
	for _, name := range s.columns {
		col, err := numericCol("StepNormalize", out, name)
		if err != nil {
			return nil, err
		}
		scaled := dataset.Column{Name: name, Kind: dataset.Numeric, Floats: make([]float64, col.Len())}
		for i, v := range col.Floats {
			scaled.Floats[i] = (v - s.means[name]) / s.scales[name]
		}
		if out, err = out.WithColumn(scaled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Mean returns the learned mean of a column, for reporting.
func (s *StepNormalize) Mean(column string) float64 {
	return s.means[column]
}

// StepInteract appends product columns for pairs of numeric columns,
// named "a_x_b".
type StepInteract struct {
	model.BaseEstimator
	pairs [][2]string
}

// Interact creates a StepInteract over the given column pairs.
func Interact(pairs ...[2]string) *StepInteract {
	return &StepInteract{pairs: pairs}
}

func (s *StepInteract) Name() string { return "interact" }

func (s *StepInteract) Prep(tbl *dataset.Table) error {
	for _, pair := range s.pairs {
		for _, name := range []string{pair[0], pair[1]} {
			if _, err := numericCol("StepInteract", tbl, name); err != nil {
				return err
			}
		}
	}
	s.SetFitted()
	return nil
}

func (s *StepInteract) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepInteract", "Bake")
	}
	out := tbl
	for _, pair := range s.pairs {
		a, err := numericCol("StepInteract", out, pair[0])
		if err != nil {
			return nil, err
		}
		b, err := numericCol("StepInteract", out, pair[1])
		if err != nil {
			return nil, err
		}
		product := dataset.Column{
			Name:   pair[0] + "_x_" + pair[1],
			Kind:   dataset.Numeric,
			Floats: make([]float64, a.Len()),
		}
		for i := range product.Floats {
			product.Floats[i] = a.Floats[i] * b.Floats[i]
		}
		if out, err = out.WithColumn(product); err != nil {
			return nil, err
		}
	}
	return out, nil
}
