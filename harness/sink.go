package harness

import (
	"context"
	"log/slog"

	"github.com/weiihann/taipan/fault"
)

// Sink receives completed benchmark records: it serializes and delivers
// them to a terminal, file, database or remote API.
type Sink interface {
	Send(ctx context.Context, r Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Result) error

func (f SinkFunc) Send(ctx context.Context, r Result) error { return f(ctx, r) }

// Report hands r to sink exactly once. A delivery error is logged and
// returned as fault.SinkFailure; it never changes the outcome of the run
// that produced r.
func Report(ctx context.Context, logger *slog.Logger, sink Sink, r Result) error {
	if sink == nil {
		return nil
	}

	if err := sink.Send(ctx, r); err != nil {
		err = fault.New(fault.SinkFailure, "report "+string(r.Kind), err)

		logger.WarnContext(ctx, "failed to report result",
			slog.String("kind", string(r.Kind)),
			slog.String("error", err.Error()),
		)

		return err
	}

	return nil
}
