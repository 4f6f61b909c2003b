package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/log"
	"github.com/amesfit/amesfit/split"
)

func newSplitCommand() *cobra.Command {
	var stratify bool

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Partition the data into training and test sets",
		Long: `Partition the data into training and test sets, either uniformly at
random or stratified on quantile bins of the target so skewed targets
keep the same distribution in both partitions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := loadData()
			if err != nil {
				return err
			}

			var sp *split.Split
			if stratify {
				target, err := tbl.Col(cfg.Target)
				if err != nil {
					return err
				}
				sp, err = split.StratifiedSplit(target.Floats, cfg.Prop, cfg.Breaks, cfg.Seed)
				if err != nil {
					return err
				}
			} else {
				sp, err = split.InitialSplit(tbl.Rows(), cfg.Prop, cfg.Seed)
				if err != nil {
					return err
				}
			}
			logger.Info().
				Uint64(log.SeedKey, cfg.Seed).
				Bool("stratified", stratify).
				Int("train", len(sp.Train)).
				Int("test", len(sp.Test)).
				Msg("split data")

			train, err := tbl.Subset(sp.Train)
			if err != nil {
				return err
			}
			test, err := tbl.Subset(sp.Test)
			if err != nil {
				return err
			}

			w := table.NewWriter()
			w.SetOutputMirror(cmd.OutOrStdout())
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"partition", "rows", "target mean", "target sd"})
			for _, part := range []struct {
				name string
				tbl  *dataset.Table
			}{{"train", train}, {"test", test}} {
				col, err := part.tbl.Col(cfg.Target)
				if err != nil {
					return err
				}
				w.AppendRow(table.Row{
					part.name, part.tbl.Rows(),
					fmt.Sprintf("%.4f", col.Mean()),
					fmt.Sprintf("%.4f", col.StdDev()),
				})
			}
			w.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&stratify, "stratify", true, "stratify on quantile bins of the target")
	return cmd
}
