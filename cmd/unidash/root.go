package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/unidash/config"
	"github.com/spektr-org/unidash/helpers"
	"github.com/spektr-org/unidash/logger"
	"github.com/spektr-org/unidash/metrics"
)

// app carries what every subcommand needs once the root has initialized.
type app struct {
	out     io.Writer
	cfgPath string

	cfg   *config.Config
	log   *zap.Logger
	eng   *metrics.Engine
	snap  *metrics.Snapshot
	order metrics.Ordering
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out, log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "unidash",
		Short:         "University admissions and enrollment dashboard",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if isBuiltin(cmd) {
				return nil
			}
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	setupFlags(rootCmd, a)

	rootCmd.AddCommand(
		kpiCommand(a),
		termsCommand(a),
		seasonsCommand(a),
		departmentsCommand(a),
		trendCommand(a),
		compareCommand(a),
		dashboardCommand(a),
		exportCommand(a),
	)
	return rootCmd
}

// setupFlags defines flags shared by every subcommand. Each one maps onto a
// config key through config.FlagKeys.
func setupFlags(rootCmd *cobra.Command, a *app) {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "Path to config file (default ./unidash.yaml)")
	pf.StringP("file", "f", "", "Path to the student term CSV file")
	pf.String("delimiter", ",", "Field delimiter of the data file")
	pf.StringP("term", "t", metrics.AllTerms, "Term to report on, or All")
	pf.String("order", "chronological", "Term order: chronological, lexical")
	pf.StringP("format", "o", "pretty", "Output format: json, pretty, yaml, table")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console, json")
}

// isBuiltin reports whether cmd is cobra's help or completion command,
// which run without a dataset.
func isBuiltin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return true
		}
	}
	return false
}

// init loads config, builds the logger and engine, and reads the dataset.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	a.log = log

	a.order, err = metrics.ParseOrdering(cfg.Report.Order)
	if err != nil {
		return err
	}

	a.eng = metrics.New(
		metrics.WithLogger(log.Named("metrics")),
		metrics.WithTermOrdinals(map[metrics.Season]int{
			metrics.Spring: cfg.Seasons.Spring,
			metrics.Fall:   cfg.Seasons.Fall,
			metrics.Other:  cfg.Seasons.Other,
		}),
	)

	a.snap, err = helpers.LoadSnapshot(cfg.Data.Path, log, helpers.CSVOptions{Delimiter: cfg.Data.Rune()})
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	return nil
}

// records returns the snapshot filtered to the configured term.
func (a *app) records() []metrics.StudentTermRecord {
	return metrics.FilterByTerm(a.snap.Records(), a.cfg.Report.Term)
}
