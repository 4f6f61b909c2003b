// Package workflow bundles a feature-engineering recipe with a linear
// model so the pair travels together: Fit preps the recipe on the
// training table and fits the model on the baked features, Predict bakes
// new data with the learned recipe parameters before predicting.
package workflow

import (
	"gonum.org/v1/gonum/mat"

	"github.com/amesfit/amesfit/core/model"
	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/linear"
	"github.com/amesfit/amesfit/metrics"
	"github.com/amesfit/amesfit/pkg/errors"
	"github.com/amesfit/amesfit/recipe"
	"github.com/amesfit/amesfit/split"
)

// Workflow pairs a Recipe with a Regression targeting one column.
type Workflow struct {
	model.BaseEstimator

	rec    *recipe.Recipe
	reg    *linear.Regression
	target string

	// Predictor columns of the baked training table, fixed at fit time.
	features []string

	modelOptions []linear.Option
}

// New creates a workflow predicting target. rec may be nil when the raw
// columns are already model-ready.
func New(rec *recipe.Recipe, target string, options ...linear.Option) *Workflow {
	return &Workflow{rec: rec, target: target, modelOptions: options}
}

// Fit preps the recipe on train, then fits the regression using every
// numeric column of the baked table except the target as a predictor.
func (w *Workflow) Fit(train *dataset.Table) error {
	baked, err := w.bakeTrain(train)
	if err != nil {
		return err
	}

	target, err := baked.Col(w.target)
	if err != nil {
		return err
	}
	if target.Kind != dataset.Numeric {
		return errors.NewColumnError("Workflow.Fit", w.target, "target must be numeric")
	}

	w.features = w.features[:0]
	for _, name := range baked.Names() {
		if name == w.target {
			continue
		}
		col, err := baked.Col(name)
		if err != nil {
			return err
		}
		if col.Kind != dataset.Numeric {
			return errors.NewColumnError("Workflow.Fit", name,
				"string column survives the recipe; encode it with recipe.Dummy")
		}
		w.features = append(w.features, name)
	}
	if len(w.features) == 0 {
		return errors.NewModelError("Workflow.Fit", "no predictor columns after baking", errors.ErrEmptyData)
	}

	X, err := baked.Matrix(w.features...)
	if err != nil {
		return err
	}
	y, err := baked.Vector(w.target)
	if err != nil {
		return err
	}

	opts := append(append([]linear.Option(nil), w.modelOptions...),
		linear.WithFeatureNames(w.features...))
	w.reg = linear.NewRegression(opts...)
	if err := w.reg.Fit(X, y); err != nil {
		return err
	}

	w.SetFitted()
	return nil
}

func (w *Workflow) bakeTrain(train *dataset.Table) (*dataset.Table, error) {
	if w.rec == nil {
		return train, nil
	}
	return w.rec.Prep(train)
}

// Predict bakes tbl with the trained recipe and returns the model's
// predictions as an n×1 matrix.
func (w *Workflow) Predict(tbl *dataset.Table) (mat.Matrix, error) {
	baked, err := w.bake(tbl)
	if err != nil {
		return nil, err
	}
	X, err := baked.Matrix(w.features...)
	if err != nil {
		return nil, err
	}
	return w.reg.Predict(X)
}

func (w *Workflow) bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !w.IsFitted() {
		return nil, errors.NewNotFittedError("Workflow", "Predict")
	}
	if w.rec == nil {
		return tbl, nil
	}
	return w.rec.Bake(tbl)
}

// Evaluation holds held-out error metrics for a fitted workflow.
type Evaluation struct {
	RMSE float64
	MAE  float64
	R2   float64
	MAPE float64
}

// Evaluate predicts on tbl and scores the predictions against its target
// column.
func (w *Workflow) Evaluate(tbl *dataset.Table) (*Evaluation, error) {
	pred, err := w.Predict(tbl)
	if err != nil {
		return nil, err
	}
	yPred, err := metrics.ColumnVec(pred)
	if err != nil {
		return nil, err
	}
	yTrueMat, err := tbl.Vector(w.target)
	if err != nil {
		return nil, err
	}
	yTrue, err := metrics.ColumnVec(yTrueMat)
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{}
	if ev.RMSE, err = metrics.RMSE(yTrue, yPred); err != nil {
		return nil, err
	}
	if ev.MAE, err = metrics.MAE(yTrue, yPred); err != nil {
		return nil, err
	}
	if ev.R2, err = metrics.R2(yTrue, yPred); err != nil {
		return nil, err
	}
	if ev.MAPE, err = metrics.MAPE(yTrue, yPred); err != nil {
		return nil, err
	}
	return ev, nil
}

// CrossValidate refits the workflow on each analysis set of a v-fold
// split of tbl and evaluates it on the matching assessment set. The
// workflow is left fitted to the last fold; refit on the full training
// table afterwards for a final model.
func (w *Workflow) CrossValidate(tbl *dataset.Table, v int, seed uint64) ([]Evaluation, error) {
	folds, err := split.VFold(tbl.Rows(), v, seed)
	if err != nil {
		return nil, err
	}

	out := make([]Evaluation, 0, len(folds))
	for _, fold := range folds {
		analysis, err := tbl.Subset(fold.Train)
		if err != nil {
			return nil, err
		}
		assessment, err := tbl.Subset(fold.Test)
		if err != nil {
			return nil, err
		}
		if err := w.Fit(analysis); err != nil {
			return nil, err
		}
		ev, err := w.Evaluate(assessment)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, nil
}

// Model returns the fitted regression for summaries and tidy output.
func (w *Workflow) Model() (*linear.Regression, error) {
	if !w.IsFitted() {
		return nil, errors.NewNotFittedError("Workflow", "Model")
	}
	return w.reg, nil
}

// Features returns the predictor column names fixed at fit time.
func (w *Workflow) Features() []string {
	return append([]string(nil), w.features...)
}

// Target returns the target column name.
func (w *Workflow) Target() string {
	return w.target
}
