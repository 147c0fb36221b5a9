// Package merge combines per-partition results into a final result.
package merge

import (
	"github.com/samber/lo"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/partition"
)

// Runs merges the sorted runs described by parts into one sorted sequence,
// in place. Adjacent runs are merged pairwise and the merged block size
// doubles each pass; an odd trailing run is carried into the next pass, so
// any number of runs of any length ends up fully merged.
//
// The merge is stable: for equal keys the element from the lower-indexed
// run comes first. parts must be contiguous and cover data exactly.
func Runs[T any](data []T, parts []partition.Partition, cmp func(a, b T) int) error {
	bounds := make([]int, 1, len(parts)+1)

	for _, p := range parts {
		if p.Start != bounds[len(bounds)-1] || p.End < p.Start {
			return fault.Newf(fault.InvalidArgument, "merge runs",
				"partition %d [%d, %d) is not contiguous", p.Index, p.Start, p.End)
		}

		if p.Len() > 0 {
			bounds = append(bounds, p.End)
		}
	}

	if last := bounds[len(bounds)-1]; last != len(data) {
		return fault.Newf(fault.InvalidArgument, "merge runs",
			"partitions cover %d of %d elements", last, len(data))
	}

	if len(bounds) <= 2 {
		return nil
	}

	aux := make([]T, len(data))

	for len(bounds) > 2 {
		runs := len(bounds) - 1
		next := make([]int, 1, runs/2+2)

		for i := 0; i+2 < len(bounds); i += 2 {
			pair(data, aux, bounds[i], bounds[i+1], bounds[i+2], cmp)
			next = append(next, bounds[i+2])
		}

		if runs%2 == 1 {
			next = append(next, bounds[len(bounds)-1])
		}

		bounds = next
	}

	return nil
}

// pair merges data[start:mid] and data[mid:end] using aux as scratch.
func pair[T any](data, aux []T, start, mid, end int, cmp func(a, b T) int) {
	copy(aux[start:end], data[start:end])

	i, j, k := start, mid, start
	for i < mid && j < end {
		if cmp(aux[i], aux[j]) <= 0 {
			data[k] = aux[i]
			i++
		} else {
			data[k] = aux[j]
			j++
		}
		k++
	}

	k += copy(data[k:], aux[i:mid])
	copy(data[k:], aux[j:end])
}

// Sum reduces scalar partial results. Addition is commutative, so the
// order partials arrive in does not change the total.
func Sum[T int64 | float64](partials []T) T {
	return lo.Sum(partials)
}
