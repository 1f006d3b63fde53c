// SPDX-License-Identifier: MIT

// Command stratum runs the census poverty-group classification pipeline:
// prepare the cleaned artifact, stamp the stratified sample column, or run
// the full study and print per-method evaluation reports.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/stratum/pipeline"
	"github.com/katalvlaran/stratum/split"
)

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "stratum",
	Short: "stratum - reproducible poverty-group classification pipeline",
	Long: `stratum loads a census survey extract, derives the three-way study group
(aid / poor / no), cleans and filters the table, splits it 50/30/20 with
stratified seeded sampling, and evaluates PCA, LDA/QDA, multinomial logit
and a KNN baseline on identical splits.

All knobs — seed, fractions, outlier fields, categorical level sets and
reference levels — live in the YAML configuration.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// prepareCmd cleans the raw extract and writes the intermediate artifact.
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean the raw extract and write the intermediate artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		cleaned, err := runner.Prepare()
		if err != nil {
			return err
		}
		fmt.Printf("cleaned table: %d rows, %d columns\n", cleaned.Rows(), cleaned.Cols())

		return nil
	},
}

// splitCmd stamps the sample column onto the cleaned artifact.
var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Stamp the stratified train/validation/test column",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, runner, err := newConfigAndRunner()
		if err != nil {
			return err
		}
		cleaned, err := runner.Prepare()
		if err != nil {
			return err
		}

		asg, err := split.Assign(cleaned,
			split.WithSeed(cfg.Seed),
			split.WithFractions(cfg.Split.TrainFraction, cfg.Split.ValidationFraction))
		if err != nil {
			return err
		}
		stamped, err := asg.Stamp(cleaned, cfg.Split.SampleColumn)
		if err != nil {
			return err
		}

		out, err := os.Create(cfg.Artifact)
		if err != nil {
			return fmt.Errorf("create artifact: %w", err)
		}
		defer out.Close()
		if err = stamped.WriteCSV(out); err != nil {
			return err
		}
		fmt.Printf("split: train=%d validation=%d test=%d → %s\n",
			len(asg.Train), len(asg.Validation), len(asg.Test), cfg.Artifact)

		return nil
	},
}

// runCmd executes the full study and prints the evaluation report.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full study: prepare, split, fit, evaluate",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		report, err := runner.Run()
		if err != nil {
			return err
		}
		fmt.Println(report)

		return nil
	},
}

func newConfigAndRunner() (*pipeline.Config, *pipeline.Runner, error) {
	cfg := pipeline.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = pipeline.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
	}
	runner, err := pipeline.NewRunner(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return cfg, runner, nil
}

func newRunner() (*pipeline.Runner, error) {
	_, runner, err := newConfigAndRunner()

	return runner, err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(prepareCmd, splitCmd, runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
