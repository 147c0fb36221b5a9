// Package kernel implements the per-kind computations that run inside a
// timed benchmark cycle. Each kernel fans its partitions out through pool
// and folds the partial results back together through merge.
package kernel

import (
	"context"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/merge"
	"github.com/weiihann/taipan/partition"
	"github.com/weiihann/taipan/pool"
	"github.com/weiihann/taipan/workload"
)

// pollEvery is how many loop iterations a worker runs between checks of
// its context.
const pollEvery = 4096

// Kernel is one benchmark kind's partitioned computation.
type Kernel interface {
	Kind() workload.Kind
	// Size is the domain size handed to the partitioner.
	Size() int
	// Prepare restores the pristine input before a timed run. Kernels that
	// mutate their input work on a fresh copy after every Prepare.
	Prepare() error
	// Run processes every partition concurrently and merges the partials
	// into the kernel's result value.
	Run(ctx context.Context, parts []partition.Partition) (float64, error)
}

// Verifier is implemented by kernels that can check the output of their
// last Run outside of the timed section.
type Verifier interface {
	Verify() error
}

// New returns the kernel for w's kind.
func New(w *workload.Workload) (Kernel, error) {
	switch w.Kind {
	case workload.KindSort:
		return &sortKernel{w: w}, nil
	case workload.KindPrime:
		return &primeKernel{rangeKernel{w: w}}, nil
	case workload.KindSeries:
		return &seriesKernel{rangeKernel{w: w}}, nil
	case workload.KindCount:
		return &countKernel{rangeKernel{w: w}}, nil
	case workload.KindMonteCarlo:
		return &monteCarloKernel{rangeKernel{w: w}}, nil
	default:
		return nil, fault.Newf(fault.InvalidArgument, "new kernel",
			"no kernel for kind %q", w.Kind)
	}
}

// reduce runs fn on every partition and sums the partials.
func reduce[T int64 | float64](
	ctx context.Context,
	parts []partition.Partition,
	fn pool.Func[T],
) (T, error) {
	partials, err := pool.Run(ctx, parts, fn)
	if err != nil {
		return 0, err
	}

	return merge.Sum(partials), nil
}

// poll reports ctx's error every pollEvery iterations.
func poll(ctx context.Context, i int64) error {
	if i%pollEvery != 0 {
		return nil
	}

	return ctx.Err()
}

// rangeKernel carries the workload shared by the range-based kernels.
type rangeKernel struct {
	w *workload.Workload
}

func (k *rangeKernel) Kind() workload.Kind { return k.w.Kind }

func (k *rangeKernel) Size() int { return k.w.Size }

// Prepare is a no-op: range kernels never mutate their input.
func (k *rangeKernel) Prepare() error { return nil }

// bounds maps a partition onto the workload's integer range.
func (k *rangeKernel) bounds(p partition.Partition) (int64, int64) {
	return k.w.Lo + int64(p.Start), k.w.Lo + int64(p.End)
}
