package kernel

import (
	"cmp"
	"context"
	"slices"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/merge"
	"github.com/weiihann/taipan/partition"
	"github.com/weiihann/taipan/pool"
	"github.com/weiihann/taipan/workload"
)

// sortKernel sorts every partition of a private copy of the workload
// array in place, then merges the sorted runs.
type sortKernel struct {
	w   *workload.Workload
	buf []int32
}

func (k *sortKernel) Kind() workload.Kind { return workload.KindSort }

func (k *sortKernel) Size() int { return len(k.w.Array) }

func (k *sortKernel) Prepare() error {
	if len(k.buf) != len(k.w.Array) {
		buf, err := workload.Alloc[int32](len(k.w.Array))
		if err != nil {
			return err
		}

		k.buf = buf
	}

	copy(k.buf, k.w.Array)

	return nil
}

func (k *sortKernel) Run(ctx context.Context, parts []partition.Partition) (float64, error) {
	_, err := pool.Run(ctx, parts,
		func(_ context.Context, p partition.Partition) (struct{}, error) {
			slices.Sort(k.buf[p.Start:p.End])

			return struct{}{}, nil
		},
	)
	if err != nil {
		return 0, err
	}

	if err := merge.Runs(k.buf, parts, cmp.Compare[int32]); err != nil {
		return 0, err
	}

	return float64(len(k.buf)), nil
}

func (k *sortKernel) Verify() error {
	if len(k.buf) != len(k.w.Array) {
		return fault.Newf(fault.WorkerFault, "verify sort",
			"output has %d elements, want %d", len(k.buf), len(k.w.Array))
	}

	if !slices.IsSorted(k.buf) {
		return fault.Newf(fault.WorkerFault, "verify sort", "output is not sorted")
	}

	return nil
}

// Output returns the buffer the last Run sorted.
func (k *sortKernel) Output() []int32 { return k.buf }
