package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/kernel"
	"github.com/weiihann/taipan/partition"
	"github.com/weiihann/taipan/score"
	"github.com/weiihann/taipan/sysinfo"
	"github.com/weiihann/taipan/workload"
)

// RunConfig holds parameters for a single benchmark run.
type RunConfig struct {
	Kind workload.Kind
	Size int
	Seed int64
	// Workers is the multi-core worker count. Zero uses the provider's.
	Workers int
	// Divisor calibrates the score for Kind.
	Divisor float64
	// Timeout bounds the single-core and multi-core timed runs.
	Timeout time.Duration
}

// Runner drives one benchmark kind through its state machine:
//
//	Idle → GeneratingWorkload → RunningSingleCore → RunningMultiCore →
//	ComputingMetrics → Reporting → Done
//
// with Failed reachable from every non-terminal state.
type Runner struct {
	Sink    Sink
	SysInfo sysinfo.Provider
	Logger  *slog.Logger
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)

	state State
}

// NewRunner creates a Runner that reports to sink.
func NewRunner(sink Sink, info sysinfo.Provider, logger *slog.Logger) *Runner {
	return &Runner{
		Sink:    sink,
		SysInfo: info,
		Logger:  logger,
	}
}

// State returns the step the runner is in.
func (r *Runner) State() State { return r.state }

// Run generates cfg's workload once, times it with one worker and with
// cfg.Workers workers, and reports the resulting record. A failed report
// is logged but the record is still returned without error.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	r.state = Idle
	logger := r.Logger.With(slog.String("kind", string(cfg.Kind)))

	result, err := r.run(ctx, logger, cfg)
	if err != nil {
		r.transition(logger, Failed)
		logger.ErrorContext(ctx, "benchmark failed",
			slog.String("fault", fault.KindOf(err).String()),
			slog.String("error", err.Error()),
		)

		return nil, fmt.Errorf("run %s: %w", cfg.Kind, err)
	}

	r.transition(logger, Reporting)
	_ = Report(ctx, logger, r.Sink, *result)

	r.transition(logger, Done)

	return result, nil
}

func (r *Runner) run(
	ctx context.Context,
	logger *slog.Logger,
	cfg RunConfig,
) (*Result, error) {
	info, err := r.SysInfo.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("read system info: %w", err)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = info.Workers
	}

	if workers <= 0 {
		return nil, fault.Newf(fault.InvalidArgument, "resolve workers",
			"worker count %d must be positive", workers)
	}

	runCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	r.transition(logger, GeneratingWorkload)

	w, err := workload.NewGenerator(workload.Config{
		Kind: cfg.Kind,
		Size: cfg.Size,
		Seed: cfg.Seed,
	}).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate workload: %w", err)
	}

	k, err := kernel.New(w)
	if err != nil {
		return nil, err
	}

	r.transition(logger, RunningSingleCore)

	single, _, err := r.timed(runCtx, k, 1)
	if err != nil {
		return nil, fmt.Errorf("single-core run: %w", err)
	}

	logger.InfoContext(ctx, "single-core run finished",
		slog.Int("size", cfg.Size),
		slog.Duration("elapsed", single),
	)

	r.transition(logger, RunningMultiCore)

	multi, value, err := r.timed(runCtx, k, workers)
	if err != nil {
		return nil, fmt.Errorf("multi-core run: %w", err)
	}

	logger.InfoContext(ctx, "multi-core run finished",
		slog.Int("size", cfg.Size),
		slog.Int("workers", workers),
		slog.Duration("elapsed", multi),
	)

	if v, ok := k.(kernel.Verifier); ok {
		if err := v.Verify(); err != nil {
			return nil, fmt.Errorf("verify multi-core output: %w", err)
		}
	}

	r.transition(logger, ComputingMetrics)

	size := int64(k.Size())
	metrics := score.Compare(single, multi, workers)

	return &Result{
		Kind:            cfg.Kind,
		WorkloadSize:    size,
		Workers:         workers,
		SingleCoreTime:  score.Seconds(single),
		MultiCoreTime:   score.Seconds(multi),
		SingleCoreScore: score.Score(size, single, cfg.Divisor),
		MultiCoreScore:  score.Score(size, multi, cfg.Divisor),
		Speedup:         metrics.Speedup,
		Efficiency:      metrics.Efficiency,
		CPUUtilization:  metrics.CPUUtilization,
		Value:           value,
		CPUModel:        info.CPUModel,
		OSInfo:          info.OS,
		Hostname:        info.Hostname,
		Key:             NewKey(),
		Time:            time.Now().UTC(),
	}, nil
}

// timed restores the kernel input, then measures partitioning, running
// and merging with the given worker count.
func (r *Runner) timed(
	ctx context.Context,
	k kernel.Kernel,
	workers int,
) (time.Duration, float64, error) {
	if err := k.Prepare(); err != nil {
		return 0, 0, err
	}

	var value float64

	elapsed, err := score.Measure(func() error {
		parts, err := partition.Split(k.Size(), workers)
		if err != nil {
			return err
		}

		value, err = k.Run(ctx, parts)

		return err
	})

	return elapsed, value, err
}

func (r *Runner) transition(logger *slog.Logger, to State) {
	from := r.state
	r.state = to

	logger.Debug("state transition",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)

	if r.OnTransition != nil {
		r.OnTransition(from, to)
	}
}
