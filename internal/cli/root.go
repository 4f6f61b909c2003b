// Package cli provides the command-line interface for amesfit.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
	"github.com/amesfit/amesfit/pkg/log"
)

var (
	cfgFile string
	cfg     *Config
	logger  zerolog.Logger
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "amesfit",
		Short: "amesfit - housing-price modeling workbench",
		Long: `amesfit explores the Ames housing data and fits linear models on it:
train/test and stratified splits, formula-based regression with tidy
summaries, feature-engineering recipes, and diagnostic plots.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := "info"
			if cfg.Verbose {
				level = "debug"
			}
			logger = log.NewConsole(level)

			if cfg.Verbose && ConfigFileUsed() != "" {
				logger.Debug().Str("file", ConfigFileUsed()).Msg("using config file")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./amesfit.yaml)")
	rootCmd.PersistentFlags().String("data", "", "CSV file to load (default: bundled Ames sample)")
	rootCmd.PersistentFlags().String("out-dir", "", "directory for run artifacts")
	rootCmd.PersistentFlags().Float64("prop", 0, "training proportion for splits")
	rootCmd.PersistentFlags().Int("breaks", 0, "number of strata for stratified splits")
	rootCmd.PersistentFlags().Uint64("seed", 0, "random seed for splits and folds")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newExploreCommand())
	rootCmd.AddCommand(newSplitCommand())
	rootCmd.AddCommand(newFitCommand())
	rootCmd.AddCommand(newRecipeCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadData loads the configured CSV file, or the bundled Ames sample when
// none is configured. Column names are cleaned and the log target derived
// either way.
func loadData() (*dataset.Table, error) {
	if cfg.DataPath == "" {
		logger.Debug().Msg("loading bundled Ames sample")
		return dataset.LoadAmes()
	}

	logger.Debug().Str("file", cfg.DataPath).Msg("loading data")
	tbl, err := dataset.ReadCSVFile(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	if tbl, err = tbl.CleanNames(); err != nil {
		return nil, err
	}
	if tbl.Has(dataset.TargetColumn) && !tbl.Has(dataset.LogTargetColumn) {
		if tbl, err = tbl.WithLog10Column(dataset.TargetColumn, dataset.LogTargetColumn); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// runDir creates a uniquely named artifact directory for this invocation
// under the configured output directory.
func runDir() (string, error) {
	dir := filepath.Join(cfg.OutDir, uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.Wrapf(err, "creating run directory %s", dir)
	}
	logger.Info().Str("dir", dir).Msg("run artifacts")
	return dir, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "amesfit %s (commit %s)\n", Version, GitCommit)
		},
	}
}
