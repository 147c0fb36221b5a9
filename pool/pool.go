// Package pool runs one goroutine per partition and joins them at a single
// barrier. There is no persistent pool: every call starts fresh workers.
package pool

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/partition"
)

// Func computes the partial result of one partition. It must only read
// shared input and only write to the region its partition owns.
type Func[R any] func(ctx context.Context, p partition.Partition) (R, error)

// Run executes fn once per partition concurrently and returns the partial
// results in partition order, independent of completion order.
//
// A failing or panicking worker cancels the context handed to the others;
// Run still waits for all of them and then reports the first failure as a
// single fault.WorkerFault. If ctx expires before the barrier, Run returns
// fault.Timeout without waiting for workers that ignore cancellation.
func Run[R any](
	ctx context.Context,
	parts []partition.Partition,
	fn Func[R],
) ([]R, error) {
	results := make([]R, len(parts))

	g, gctx := errgroup.WithContext(ctx)

	for i, p := range parts {
		i, p := i, p // per-iteration copy; module targets go 1.21 loop semantics
		g.Go(func() (err error) {
			op := fmt.Sprintf("partition %d [%d, %d)", p.Index, p.Start, p.End)

			defer func() {
				if r := recover(); r != nil {
					err = fault.Newf(fault.WorkerFault, op, "panic: %v", r)
				}
			}()

			res, err := fn(gctx, p)
			if err != nil {
				return fault.New(fault.WorkerFault, op, err)
			}

			results[i] = res

			return nil
		})
	}

	done := make(chan error, 1)

	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, cancelled(ctxErr)
			}

			return nil, err
		}

		return results, nil

	case <-ctx.Done():
		return nil, cancelled(ctx.Err())
	}
}

func cancelled(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fault.New(fault.Timeout, "join workers", err)
	}

	return fmt.Errorf("join workers: %w", err)
}
