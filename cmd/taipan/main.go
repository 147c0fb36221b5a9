// Package main provides the CLI entry point for taipan, a parallel CPU
// benchmark that times each workload on one core and on every core.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/weiihann/taipan/harness"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(logger, level)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("taipan failed", slog.String("error", err.Error()))
		stop()
		os.Exit(harness.ExitCode(err))
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "taipan",
		Short: "Parallel CPU benchmark",
		Long: `Taipan runs CPU-bound workloads (sorting, prime counting, series
summation, counting, Monte Carlo) once on a single worker and once across all
cores, then reports calibrated scores, speedup and parallel efficiency.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	root.AddCommand(
		newRunCmd(logger),
		newKindsCmd(),
		newHistoryCmd(),
	)

	return root
}
