package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
	"github.com/amesfit/amesfit/pkg/log"
	"github.com/amesfit/amesfit/recipe"
	"github.com/amesfit/amesfit/split"
	"github.com/amesfit/amesfit/workflow"
)

func newRecipeCommand() *cobra.Command {
	var (
		splineDF  int
		splineCol string
		pcaK      int
		poolBelow float64
		cvFolds   int
	)

	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Fit a workflow with feature engineering and evaluate it",
		Long: `Build a feature-engineering recipe over the data (rare-level pooling,
dummy encoding, optional spline or PCA on the numeric predictors),
bundle it with a linear model, and evaluate on a held-out split or by
cross-validation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := loadData()
			if err != nil {
				return err
			}

			// The raw target must not leak into the predictors when the
			// model targets its log transform.
			if cfg.Target != dataset.TargetColumn && tbl.Has(dataset.TargetColumn) {
				if tbl, err = tbl.Drop(dataset.TargetColumn); err != nil {
					return err
				}
			}

			rec, err := buildRecipe(tbl, splineCol, splineDF, pcaK, poolBelow)
			if err != nil {
				return err
			}
			logger.Info().Strs("steps", rec.Steps()).Msg("built recipe")

			wf := workflow.New(rec, cfg.Target)

			if cvFolds > 0 {
				evals, err := wf.CrossValidate(tbl, cvFolds, cfg.Seed)
				if err != nil {
					return err
				}
				renderCV(cmd, evals)
				return nil
			}

			target, err := tbl.Col(cfg.Target)
			if err != nil {
				return err
			}
			sp, err := split.StratifiedSplit(target.Floats, cfg.Prop, cfg.Breaks, cfg.Seed)
			if err != nil {
				return err
			}
			train, err := tbl.Subset(sp.Train)
			if err != nil {
				return err
			}
			test, err := tbl.Subset(sp.Test)
			if err != nil {
				return err
			}

			if err := wf.Fit(train); err != nil {
				return err
			}
			logger.Info().
				Str(log.TargetKey, cfg.Target).
				Strs("features", wf.Features()).
				Msg("fitted workflow")

			reg, err := wf.Model()
			if err != nil {
				return err
			}
			if err := reg.Summary(cmd.OutOrStdout()); err != nil {
				return err
			}

			ev, err := wf.Evaluate(test)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nHeld-out performance (%d rows)\n", test.Rows())
			w := table.NewWriter()
			w.SetOutputMirror(cmd.OutOrStdout())
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"metric", "value"})
			w.AppendRow(table.Row{"RMSE", fmt.Sprintf("%.5f", ev.RMSE)})
			w.AppendRow(table.Row{"MAE", fmt.Sprintf("%.5f", ev.MAE)})
			w.AppendRow(table.Row{"R²", fmt.Sprintf("%.5f", ev.R2)})
			w.AppendRow(table.Row{"MAPE", fmt.Sprintf("%.3f%%", ev.MAPE)})
			w.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&splineDF, "spline-df", 0, "natural spline degrees of freedom (0 disables)")
	cmd.Flags().StringVar(&splineCol, "spline-col", "gr_liv_area", "column the spline expands")
	cmd.Flags().IntVar(&pcaK, "pca", 0, "retain this many principal components of the numeric predictors (0 disables)")
	cmd.Flags().Float64Var(&poolBelow, "pool-below", 0.05, "pool factor levels rarer than this share into \"other\"")
	cmd.Flags().IntVar(&cvFolds, "cv", 0, "evaluate by v-fold cross-validation instead of a single split")
	return cmd
}

// buildRecipe assembles the standard preprocessing for tbl: pool and dummy
// the string columns, normalize the numeric predictors, then optionally
// expand one column with a spline basis or compress the predictors with
// PCA. Spline and PCA are mutually exclusive.
func buildRecipe(tbl *dataset.Table, splineCol string, splineDF, pcaK int, poolBelow float64) (*recipe.Recipe, error) {
	if splineDF > 0 && pcaK > 0 {
		return nil, errors.New("amesfit: choose either --spline-df or --pca, not both")
	}

	var strCols, numCols []string
	for _, name := range tbl.Names() {
		if name == cfg.Target {
			continue
		}
		col, err := tbl.Col(name)
		if err != nil {
			return nil, err
		}
		if col.Kind == dataset.String {
			strCols = append(strCols, name)
		} else {
			numCols = append(numCols, name)
		}
	}

	rec := recipe.New()
	if len(strCols) > 0 {
		if poolBelow > 0 {
			rec.Add(recipe.Other(poolBelow, strCols...))
		}
		rec.Add(recipe.Dummy(strCols...))
	}

	if splineDF > 0 {
		normCols := make([]string, 0, len(numCols))
		for _, name := range numCols {
			if name != splineCol {
				normCols = append(normCols, name)
			}
		}
		if len(normCols) > 0 {
			rec.Add(recipe.Normalize(normCols...))
		}
		rec.Add(recipe.NaturalSpline(splineCol, splineDF))
		return rec, nil
	}

	if len(numCols) > 0 {
		rec.Add(recipe.Normalize(numCols...))
	}
	if pcaK > 0 {
		rec.Add(recipe.PCA(pcaK, numCols...))
	}
	return rec, nil
}

func renderCV(cmd *cobra.Command, evals []workflow.Evaluation) {
	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"fold", "RMSE", "MAE", "R²"})

	var meanRMSE, meanMAE, meanR2 float64
	for i, ev := range evals {
		w.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.5f", ev.RMSE),
			fmt.Sprintf("%.5f", ev.MAE),
			fmt.Sprintf("%.5f", ev.R2),
		})
		meanRMSE += ev.RMSE
		meanMAE += ev.MAE
		meanR2 += ev.R2
	}
	n := float64(len(evals))
	w.AppendFooter(table.Row{
		"mean",
		fmt.Sprintf("%.5f", meanRMSE/n),
		fmt.Sprintf("%.5f", meanMAE/n),
		fmt.Sprintf("%.5f", meanR2/n),
	})
	w.Render()
}
