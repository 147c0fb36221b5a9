package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/weiihann/taipan/config"
	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/harness"
	"github.com/weiihann/taipan/report"
	"github.com/weiihann/taipan/sysinfo"
	"github.com/weiihann/taipan/workload"
)

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		kinds        []string
		workloadSize int
		workers      int
		seed         int64
		timeout      time.Duration
		configPath   string
		sinks        []string
		outputJSON   bool
		isolate      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run single-core and multi-core benchmarks",
		Long: `Generate each selected workload once, time it with one worker and
with one worker per CPU, and hand the resulting records to the configured
report sinks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workloadSize < 0 {
				return fault.Newf(fault.InvalidArgument, "parse flags",
					"workload size %d must not be negative", workloadSize)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()

			if flags.Changed("workers") {
				cfg.Workers = workers
			}

			if flags.Changed("seed") {
				cfg.Seed = seed
			}

			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}

			if flags.Changed("sink") {
				cfg.Sinks.Enabled = sinks
			}

			if cfg.Sinks.MongoURI == "" {
				cfg.Sinks.MongoURI = os.Getenv("MONGODB_URI")
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runBenchmark(cmd.Context(), logger, runConfig{
				cfg:          cfg,
				kinds:        kinds,
				workloadSize: workloadSize,
				configPath:   configPath,
				outputJSON:   outputJSON,
				isolate:      isolate,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&kinds, "kind", nil,
		"Benchmark kinds to run (default: all)")
	flags.IntVar(&workloadSize, "workload-size", 0,
		"Workload size override (0 = configured size per kind)")
	flags.IntVar(&workers, "workers", 0,
		"Multi-core worker count (0 = one per online CPU)")
	flags.Int64Var(&seed, "seed", 0,
		"Random seed (0 = use current time)")
	flags.DurationVar(&timeout, "timeout", 30*time.Minute,
		"Deadline for each kind's single+multi run (0 = none)")
	flags.StringVar(&configPath, "config", "",
		"Path to YAML config file")
	flags.StringSliceVar(&sinks, "sink", nil,
		"Report sinks: stdout, file, http, mongo, sqlite, prometheus, none")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of table")
	flags.BoolVar(&isolate, "isolate", false,
		"Run each kind in a child process")

	return cmd
}

type runConfig struct {
	cfg          config.Config
	kinds        []string
	workloadSize int
	configPath   string
	outputJSON   bool
	isolate      bool
}

// runner is satisfied by harness.Runner and harness.ProcessRunner.
type runner interface {
	Run(ctx context.Context, cfg harness.RunConfig) (*harness.Result, error)
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	rc runConfig,
) error {
	kinds, err := selectKinds(rc.kinds)
	if err != nil {
		return err
	}

	seed := rc.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.Any("kinds", kinds),
		slog.Int("workers", rc.cfg.Workers),
		slog.Int64("seed", seed),
		slog.Duration("timeout", rc.cfg.Timeout),
		slog.Any("sinks", rc.cfg.Sinks.Enabled),
	)

	sink, closeSinks, err := buildSinks(ctx, logger, rc.cfg.Sinks, rc.outputJSON)
	if err != nil {
		return err
	}
	defer closeSinks()

	run, err := newRunner(logger, sink, rc)
	if err != nil {
		return err
	}

	results := make([]harness.Result, 0, len(kinds))

	for _, kind := range kinds {
		size := rc.cfg.Size(kind)
		if rc.workloadSize > 0 {
			size = rc.workloadSize
		}

		result, runErr := run.Run(ctx, harness.RunConfig{
			Kind:    kind,
			Size:    size,
			Seed:    seed,
			Workers: rc.cfg.Workers,
			Divisor: rc.cfg.Divisor(kind),
			Timeout: rc.cfg.Timeout,
		})
		if runErr != nil {
			return runErr
		}

		if rc.isolate {
			_ = harness.Report(ctx, logger, sink, *result)
		}

		results = append(results, *result)
	}

	if rc.outputJSON {
		if err := report.GenerateJSON(os.Stdout, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		printSummary(results)
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

func newRunner(logger *slog.Logger, sink harness.Sink, rc runConfig) (runner, error) {
	if !rc.isolate {
		return harness.NewRunner(sink, sysinfo.Host{}, logger), nil
	}

	var extra []string
	if rc.configPath != "" {
		extra = []string{"--config", rc.configPath}
	}

	return harness.NewProcessRunner("", extra, nil, logger)
}

func selectKinds(names []string) ([]workload.Kind, error) {
	if len(names) == 0 || lo.Contains(names, "all") {
		return workload.Kinds(), nil
	}

	kinds := make([]workload.Kind, 0, len(names))

	for _, name := range lo.Uniq(names) {
		kind, err := workload.ParseKind(name)
		if err != nil {
			return nil, err
		}

		kinds = append(kinds, kind)
	}

	return kinds, nil
}

func printSummary(results []harness.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	for _, r := range results {
		scaling := green
		if r.Efficiency < 0.5 {
			scaling = yellow
		}

		bold.Fprintf(os.Stderr, "%-10s", r.Kind)
		fmt.Fprintf(os.Stderr, " single %8d  multi %8d  ", r.SingleCoreScore, r.MultiCoreScore)
		scaling.Fprintf(os.Stderr, "%.2fx on %d workers\n", r.Speedup, r.Workers)
	}
}
