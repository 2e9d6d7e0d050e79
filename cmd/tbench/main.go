// Package main provides the CLI entry point for tbench, an embeddable
// micro-benchmark harness.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/weiihann/tbench/harness"
	"github.com/weiihann/tbench/plan"
	"github.com/weiihann/tbench/report"
	"github.com/weiihann/tbench/workload"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "tbench",
		Short: "Run named groups of timed code cases",
		Long: `tbench registers named benchmarks, each an ordered list of timed
cases plus a strategy that reduces the per-case timings to one reported
figure, and runs them by name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newListCmd(logger))

	return root
}

type suiteFlags struct {
	size         int
	distribution string
	seed         int64
	planPath     string
}

func (f *suiteFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.size, "size", 100000,
		"Number of generated elements for built-in benchmarks")
	flags.StringVar(&f.distribution, "distribution", "uniform",
		"Value distribution: uniform, power-law, exponential")
	flags.Int64Var(&f.seed, "seed", 1,
		"Random seed for generated data")
	flags.StringVar(&f.planPath, "plan", "",
		"Path to a YAML plan declaring command benchmarks")
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		sf              suiteFlags
		all             bool
		continueOnError bool
		outputJSON      bool
		outputReport    bool
		noColor         bool
	)

	cmd := &cobra.Command{
		Use:   "run [names...]",
		Short: "Run benchmarks by name",
		Long: `Run the named benchmarks in order. Without names, the plan's run
list is used; --all runs every registered benchmark. Unknown names are
reported and skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks(logger, runConfig{
				suite:           sf,
				names:           args,
				all:             all,
				continueOnError: continueOnError,
				outputJSON:      outputJSON,
				outputReport:    outputReport,
				colored:         !noColor && isTerminal(os.Stdout),
				stdout:          cmd.OutOrStdout(),
			})
		},
	}

	sf.register(cmd)

	flags := cmd.Flags()
	flags.BoolVar(&all, "all", false,
		"Run every registered benchmark")
	flags.BoolVar(&continueOnError, "continue-on-error", false,
		"Keep running the batch after a benchmark fails")
	flags.BoolVar(&outputJSON, "json", false,
		"Print results as JSON after the run")
	flags.BoolVar(&outputReport, "report", false,
		"Print a markdown summary table after the run")
	flags.BoolVar(&noColor, "no-color", false,
		"Disable coloured output")

	return cmd
}

func newListCmd(logger *slog.Logger) *cobra.Command {
	var sf suiteFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered benchmarks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			suite, _, err := buildSuite(logger, sf)
			if err != nil {
				return err
			}

			for _, name := range suite.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}

	sf.register(cmd)

	return cmd
}

type runConfig struct {
	suite           suiteFlags
	names           []string
	all             bool
	continueOnError bool
	outputJSON      bool
	outputReport    bool
	colored         bool
	stdout          io.Writer
}

func runBenchmarks(logger *slog.Logger, cfg runConfig) error {
	opts := []harness.Option{
		harness.WithObserver(harness.NewConsole(cfg.stdout, cfg.colored)),
		harness.WithContinueOnError(cfg.continueOnError),
	}

	suite, p, err := buildSuite(logger, cfg.suite, opts...)
	if err != nil {
		return err
	}

	names := cfg.names

	switch {
	case cfg.all:
		names = suite.Names()
	case len(names) == 0 && p != nil:
		names = p.Names()
	case len(names) == 0:
		return fmt.Errorf(
			"no benchmarks selected: pass names, --plan or --all",
		)
	}

	logger.Info("starting run",
		slog.Any("benchmarks", names),
		slog.Bool("continue_on_error", cfg.continueOnError),
	)

	results, runErr := suite.RunNames(names...)

	if len(results) > 0 {
		if cfg.outputReport {
			fmt.Fprintln(cfg.stdout)
			if err := report.Generate(cfg.stdout, results); err != nil {
				return fmt.Errorf("generate report: %w", err)
			}
		}

		if cfg.outputJSON {
			if err := report.GenerateJSON(cfg.stdout, results); err != nil {
				return fmt.Errorf("generate JSON report: %w", err)
			}
		}
	}

	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}

	logger.Info("run complete", slog.Int("benchmarks", len(results)))

	return nil
}

// buildSuite registers the built-in benchmarks and, when a plan path is
// set, the plan's command benchmarks. A plan's continue_on_error setting
// is applied after opts, so it can only turn isolation on.
func buildSuite(
	logger *slog.Logger,
	sf suiteFlags,
	opts ...harness.Option,
) (*harness.Suite, *plan.Plan, error) {
	if sf.size < 0 {
		return nil, nil, fmt.Errorf("--size must not be negative, got %d", sf.size)
	}

	var p *plan.Plan

	if sf.planPath != "" {
		var err error

		p, err = plan.Load(sf.planPath)
		if err != nil {
			return nil, nil, err
		}

		if p.ContinueOnError {
			opts = append(opts, harness.WithContinueOnError(true))
		}
	}

	opts = append(opts, harness.WithLogger(logger))
	suite := harness.NewSuite(opts...)

	err := workload.Register(suite, workload.Config{
		Size:         sf.size,
		Distribution: sf.distribution,
		Seed:         sf.seed,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("register built-ins: %w", err)
	}

	if p != nil {
		if err := p.Register(suite, logger); err != nil {
			return nil, nil, err
		}
	}

	return suite, p, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) && !color.NoColor
}
