package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amesfit/amesfit/linear"
	"github.com/amesfit/amesfit/metrics"
	"github.com/amesfit/amesfit/pkg/log"
	"github.com/amesfit/amesfit/plots"
	"github.com/amesfit/amesfit/split"
)

func newFitCommand() *cobra.Command {
	var formulaSpec string

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a formula-based linear model and evaluate it on held-out data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if formulaSpec == "" {
				formulaSpec = cfg.Formula
			}

			tbl, err := loadData()
			if err != nil {
				return err
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

			start := time.Now()
			reg, err := linear.FitFormula(train, formulaSpec)
			if err != nil {
				return err
			}
			logger.Info().
				Str(log.OperationKey, "fit").
				Str("formula", formulaSpec).
				Int(log.RowsKey, train.Rows()).
				Int64(log.DurationKey, time.Since(start).Milliseconds()).
				Msg("fitted model")

			if err := reg.Summary(cmd.OutOrStdout()); err != nil {
				return err
			}

			pred, err := reg.PredictTable(test)
			if err != nil {
				return err
			}
			yPred, err := metrics.ColumnVec(pred)
			if err != nil {
				return err
			}
			truthMat, err := test.Vector(reg.Response())
			if err != nil {
				return err
			}
			truth, err := metrics.ColumnVec(truthMat)
			if err != nil {
				return err
			}

			rmse, err := metrics.RMSE(truth, yPred)
			if err != nil {
				return err
			}
			mae, err := metrics.MAE(truth, yPred)
			if err != nil {
				return err
			}
			r2, err := metrics.R2(truth, yPred)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nHeld-out performance (%d rows)\n", test.Rows())
			w := table.NewWriter()
			w.SetOutputMirror(cmd.OutOrStdout())
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"metric", "value"})
			w.AppendRow(table.Row{"RMSE", fmt.Sprintf("%.5f", rmse)})
			w.AppendRow(table.Row{"MAE", fmt.Sprintf("%.5f", mae)})
			w.AppendRow(table.Row{"R²", fmt.Sprintf("%.5f", r2)})
			w.Render()

			dir, err := runDir()
			if err != nil {
				return err
			}
			actual, err := test.Col(reg.Response())
			if err != nil {
				return err
			}
			pvaPath := filepath.Join(dir, "predicted_vs_actual.png")
			if err := plots.PredictedVsActual(actual, pred, "Predicted vs actual: "+reg.Response(), pvaPath); err != nil {
				return err
			}
			logger.Info().Str("path", pvaPath).Msg("wrote predicted-vs-actual plot")

			// A single-predictor model also gets the classic scatter with
			// the fitted line.
			if names := reg.FeatureNames(); len(names) == 1 && train.Has(names[0]) {
				x, err := train.Col(names[0])
				if err != nil {
					return err
				}
				y, err := train.Col(reg.Response())
				if err != nil {
					return err
				}
				line := &plots.FitLine{Intercept: reg.Intercept(), Slope: reg.Coefficients()[0]}
				scatterPath := filepath.Join(dir, "fit_scatter.png")
				if err := plots.Scatter(x, y, line, reg.Response()+" ~ "+names[0], scatterPath); err != nil {
					return err
				}
				logger.Info().Str("path", scatterPath).Msg("wrote scatter plot")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formulaSpec, "formula", "f", "", "model formula, e.g. \"log_sale_price ~ gr_liv_area + year_built\"")
	return cmd
}
