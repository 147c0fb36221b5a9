package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/weiihann/taipan/fault"
)

// ExitTimeout is the exit status of a taipan process whose run hit its
// deadline. ProcessRunner maps it back to fault.Timeout.
const ExitTimeout = 3

// ExitCode returns the process exit status for a run that ended with err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case fault.Is(err, fault.Timeout):
		return ExitTimeout
	default:
		return 1
	}
}

// ProcessRunner runs one benchmark kind in a child process of the taipan
// binary, so a crash or runaway allocation cannot take the parent down.
// The child is invoked with `run --json --sink none` and its stdout is
// decoded as the resulting record.
type ProcessRunner struct {
	BinaryPath string
	ExtraArgs  []string
	Env        []string
	Logger     *slog.Logger
}

// NewProcessRunner creates a ProcessRunner. An empty binaryPath resolves
// to the running executable. Env is appended to the inherited environment.
func NewProcessRunner(
	binaryPath string,
	extraArgs, env []string,
	logger *slog.Logger,
) (*ProcessRunner, error) {
	if binaryPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable: %w", err)
		}

		binaryPath = exe
	}

	return &ProcessRunner{
		BinaryPath: binaryPath,
		ExtraArgs:  extraArgs,
		Env:        env,
		Logger:     logger.With(slog.String("binary", binaryPath)),
	}, nil
}

// Run executes cfg in a child process and returns its parsed record.
// The child's own timeout is cfg.Timeout; the parent allows one extra
// minute for startup and teardown.
func (r *ProcessRunner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout+time.Minute)
		defer cancel()
	}

	args := r.args(cfg)
	cmd := exec.CommandContext(ctx, r.BinaryPath, args...)

	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.InfoContext(ctx, "starting isolated run",
		slog.String("kind", string(cfg.Kind)),
		slog.Int("size", cfg.Size),
	)

	wallStart := time.Now()

	if err := cmd.Run(); err != nil {
		op := "isolated " + string(cfg.Kind)

		if ctx.Err() != nil {
			return nil, fault.New(fault.Timeout, op, ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == ExitTimeout {
			return nil, fault.Newf(fault.Timeout, op,
				"child hit its deadline\nstderr: %s", stderr.String())
		}

		return nil, fault.Newf(fault.WorkerFault, op,
			"child failed: %v\nstderr: %s", err, stderr.String())
	}

	r.Logger.InfoContext(ctx, "isolated run finished",
		slog.String("kind", string(cfg.Kind)),
		slog.Duration("wall_time", time.Since(wallStart)),
	)

	result, err := parseResult(cfg, &stdout)
	if err != nil {
		return nil, fmt.Errorf(
			"parse %s output: %w\nstdout: %s",
			cfg.Kind, err, stdout.String(),
		)
	}

	return result, nil
}

func (r *ProcessRunner) args(cfg RunConfig) []string {
	args := make([]string, 0, len(r.ExtraArgs)+14)
	args = append(args, "run", "--json", "--sink", "none",
		"--kind", string(cfg.Kind),
		"--workload-size", strconv.Itoa(cfg.Size),
		"--workers", strconv.Itoa(cfg.Workers),
		"--seed", strconv.FormatInt(cfg.Seed, 10),
		"--timeout", cfg.Timeout.String(),
	)

	return append(args, r.ExtraArgs...)
}

// parseResult decodes the JSON array printed by `run --json` and returns
// the record for cfg.Kind.
func parseResult(cfg RunConfig, r io.Reader) (*Result, error) {
	var results []Result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	for i := range results {
		if results[i].Kind == "" {
			results[i].Kind = cfg.Kind
		}

		if results[i].Kind == cfg.Kind {
			return &results[i], nil
		}
	}

	return nil, fmt.Errorf("no %s record in output", cfg.Kind)
}
