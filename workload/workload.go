// Package workload generates the deterministic inputs the CPU benchmarks
// run against: a random integer array for sorting, or an integer range for
// the counting and summation kernels.
package workload

import (
	"fmt"
	mrand "math/rand"
	"slices"

	"github.com/samber/lo"

	"github.com/weiihann/taipan/fault"
)

// Kind names a benchmark.
type Kind string

const (
	KindSort       Kind = "sort"
	KindPrime      Kind = "prime"
	KindSeries     Kind = "series"
	KindCount      Kind = "count"
	KindMonteCarlo Kind = "montecarlo"
)

// Kinds returns every supported benchmark kind.
func Kinds() []Kind {
	return []Kind{KindSort, KindPrime, KindSeries, KindCount, KindMonteCarlo}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds(), k) {
		names := lo.Map(Kinds(), func(k Kind, _ int) string { return string(k) })

		return "", fault.Newf(fault.InvalidArgument, "parse kind",
			"unknown benchmark kind %q (want one of %v)", s, names)
	}

	return k, nil
}

// Describe returns a one-line description of what a kind measures.
func (k Kind) Describe() string {
	switch k {
	case KindSort:
		return "merge-sort a random int32 array split into sorted runs"
	case KindPrime:
		return "count primes by trial division"
	case KindSeries:
		return "sum terms of the series for e"
	case KindCount:
		return "count to N by repeated increments"
	case KindMonteCarlo:
		return "estimate pi from random points in the unit square"
	default:
		return ""
	}
}

// MaxValue bounds the values of generated sort arrays: [0, MaxValue).
const MaxValue = 1000

// Workload is an immutable benchmark input. Sort workloads carry Array;
// every other kind works over the integer range [Lo, Lo+Size).
type Workload struct {
	Kind  Kind
	Size  int
	Seed  int64
	Array []int32
	Lo    int64
}

// Hi returns the exclusive end of the workload's range.
func (w *Workload) Hi() int64 { return w.Lo + int64(w.Size) }

// Config controls workload generation parameters.
type Config struct {
	Kind Kind
	Size int
	Seed int64
}

// Generator produces deterministic workloads from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Generate builds the workload. A size the process cannot allocate is
// reported as fault.AllocationFailure.
func (g *Generator) Generate() (w *Workload, err error) {
	if g.cfg.Size < 0 {
		return nil, fault.Newf(fault.InvalidArgument, "generate workload",
			"size %d must not be negative", g.cfg.Size)
	}

	if _, err := ParseKind(string(g.cfg.Kind)); err != nil {
		return nil, err
	}

	w = &Workload{
		Kind: g.cfg.Kind,
		Size: g.cfg.Size,
		Seed: g.cfg.Seed,
	}

	switch g.cfg.Kind {
	case KindSort:
		w.Array, err = g.randomArray(g.cfg.Size)
		if err != nil {
			return nil, err
		}

	case KindSeries:
		// The e series starts at 1/1!.
		w.Lo = 1
	}

	return w, nil
}

func (g *Generator) randomArray(n int) (arr []int32, err error) {
	arr, err = Alloc[int32](n)
	if err != nil {
		return nil, fmt.Errorf("generate %s array: %w", KindSort, err)
	}

	for i := range arr {
		arr[i] = int32(g.rng.Intn(MaxValue))
	}

	return arr, nil
}

// Alloc allocates a slice of n elements, converting the runtime panic
// raised for impossible sizes into fault.AllocationFailure.
func Alloc[T any](n int) (s []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fault.Newf(fault.AllocationFailure, "allocate",
				"%d elements: %v", n, r)
		}
	}()

	return make([]T, n), nil
}
