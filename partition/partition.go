// Package partition splits a benchmark domain into contiguous worker ranges.
package partition

import (
	"github.com/weiihann/taipan/fault"
)

// Partition is the half-open range [Start, End) assigned to one worker.
type Partition struct {
	Index int `json:"index"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of domain units in the partition.
func (p Partition) Len() int { return p.End - p.Start }

// Split divides a domain of size units into exactly k partitions.
// Every partition holds size/k units and the first size%k partitions
// hold one extra, so sizes differ by at most one. When k > size the
// trailing partitions are empty.
func Split(size, k int) ([]Partition, error) {
	if k <= 0 {
		return nil, fault.Newf(fault.InvalidArgument, "split",
			"worker count %d must be positive", k)
	}

	if size < 0 {
		return nil, fault.Newf(fault.InvalidArgument, "split",
			"domain size %d must not be negative", size)
	}

	base, extra := size/k, size%k
	parts := make([]Partition, k)

	start := 0
	for i := range parts {
		n := base
		if i < extra {
			n++
		}

		parts[i] = Partition{Index: i, Start: start, End: start + n}
		start += n
	}

	return parts, nil
}
