package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/log"
	"github.com/amesfit/amesfit/plots"
)

func newExploreCommand() *cobra.Command {
	var histograms bool

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Summarize the dataset and plot the target distribution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := loadData()
			if err != nil {
				return err
			}
			logger.Info().
				Int(log.RowsKey, tbl.Rows()).
				Int(log.ColumnsKey, tbl.NumCols()).
				Msg("loaded dataset")

			fmt.Fprintf(cmd.OutOrStdout(), "%d rows, %d columns\n\n", tbl.Rows(), tbl.NumCols())

			w := table.NewWriter()
			w.SetOutputMirror(cmd.OutOrStdout())
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"column", "kind", "mean", "sd", "min", "median", "max", "levels"})
			for _, name := range tbl.Names() {
				col, err := tbl.Col(name)
				if err != nil {
					return err
				}
				if col.Kind == dataset.Numeric {
					w.AppendRow(table.Row{
						name, "numeric",
						fmt.Sprintf("%.3f", col.Mean()),
						fmt.Sprintf("%.3f", col.StdDev()),
						fmt.Sprintf("%.3f", col.Quantile(0)),
						fmt.Sprintf("%.3f", col.Quantile(0.5)),
						fmt.Sprintf("%.3f", col.Quantile(1)),
						"",
					})
				} else {
					w.AppendRow(table.Row{name, "string", "", "", "", "", "", len(col.Levels())})
				}
			}
			w.Render()

			if !histograms {
				return nil
			}
			dir, err := runDir()
			if err != nil {
				return err
			}
			for _, name := range []string{dataset.TargetColumn, dataset.LogTargetColumn} {
				if !tbl.Has(name) {
					continue
				}
				col, err := tbl.Col(name)
				if err != nil {
					return err
				}
				path := filepath.Join(dir, name+"_hist.png")
				if err := plots.Histogram(col, 30, "Distribution of "+name, path); err != nil {
					return err
				}
				logger.Info().Str("path", path).Msg("wrote histogram")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&histograms, "histograms", true, "write target histograms to the run directory")
	return cmd
}
