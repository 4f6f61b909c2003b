// Package recipe implements declarative feature-engineering pipelines over
// dataset tables. A Recipe is an ordered list of steps; Prep learns each
// step's parameters from the training table and Bake replays the learned
// transformations identically on any table, which is what keeps the train
// and test encodings consistent.
package recipe

import (
	"fmt"

	"github.com/amesfit/amesfit/core/model"
	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
)

// Step is one transformation of a recipe. Prep learns parameters from the
// training table (already transformed by the preceding steps); Bake applies
// them to any table.
type Step interface {
	Name() string
	Prep(tbl *dataset.Table) error
	Bake(tbl *dataset.Table) (*dataset.Table, error)
}

// Recipe is an ordered feature-engineering pipeline.
type Recipe struct {
	model.BaseEstimator
	steps []Step
}

// New creates a recipe from the given steps.
func New(steps ...Step) *Recipe {
	return &Recipe{steps: steps}
}

// Add appends a step and returns the recipe for chaining. Adding to a
// prepped recipe resets it.
func (r *Recipe) Add(step Step) *Recipe {
	r.steps = append(r.steps, step)
	r.Reset()
	return r
}

// Steps returns the step names in order.
func (r *Recipe) Steps() []string {
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Name()
	}
	return names
}

// Prep fits every step against train, threading each step's output into
// the next, and returns the fully baked training table.
func (r *Recipe) Prep(train *dataset.Table) (*dataset.Table, error) {
	if train.Rows() == 0 {
		return nil, errors.NewModelError("Recipe.Prep", "empty training table", errors.ErrEmptyData)
	}

	current := train
	for _, step := range r.steps {
		if err := step.Prep(current); err != nil {
			return nil, errors.Wrapf(err, "recipe step %s", step.Name())
		}
		baked, err := step.Bake(current)
		if err != nil {
			return nil, errors.Wrapf(err, "recipe step %s", step.Name())
		}
		current = baked
	}
	r.SetFitted()
	return current, nil
}

// Bake applies the prepped steps to tbl.
func (r *Recipe) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Recipe", "Bake")
	}
	current := tbl
	for _, step := range r.steps {
		baked, err := step.Bake(current)
		if err != nil {
			return nil, errors.Wrapf(err, "recipe step %s", step.Name())
		}
		current = baked
	}
	return current, nil
}

// numericCol fetches a column and checks it is numeric. Applying a
// numeric transform to a string column is a value error, not a missing
// column.
func numericCol(op string, tbl *dataset.Table, name string) (*dataset.Column, error) {
	col, err := tbl.Col(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != dataset.Numeric {
		return nil, errors.NewValueError(op, fmt.Sprintf("column %q is not numeric", name))
	}
	return col, nil
}
