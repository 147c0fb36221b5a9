package kernel

import (
	"context"
	"math"
	mrand "math/rand"

	"github.com/weiihann/taipan/partition"
)

// primeKernel counts primes in the workload range by trial division. The
// trial division itself is the measured load.
type primeKernel struct{ rangeKernel }

func (k *primeKernel) Run(ctx context.Context, parts []partition.Partition) (float64, error) {
	n, err := reduce(ctx, parts, func(ctx context.Context, p partition.Partition) (int64, error) {
		lo, hi := k.bounds(p)

		return countPrimes(ctx, lo, hi)
	})

	return float64(n), err
}

func countPrimes(ctx context.Context, lo, hi int64) (int64, error) {
	var count int64

	for v := max(lo, 2); v < hi; v++ {
		if err := poll(ctx, v); err != nil {
			return 0, err
		}

		if isPrime(v) {
			count++
		}
	}

	return count, nil
}

func isPrime(v int64) bool {
	if v < 2 {
		return false
	}

	for d := int64(2); d*d <= v; d++ {
		if v%d == 0 {
			return false
		}
	}

	return true
}

// seriesKernel sums the terms 1/i! of the series for e over its range.
// Each partition seeds its first term from lgamma, so the partials are
// independent and the total approximates e for any worker count.
type seriesKernel struct{ rangeKernel }

func (k *seriesKernel) Run(ctx context.Context, parts []partition.Partition) (float64, error) {
	sum, err := reduce(ctx, parts, func(ctx context.Context, p partition.Partition) (float64, error) {
		lo, hi := k.bounds(p)

		return seriesTerms(ctx, lo, hi)
	})

	// 1/0! is not part of any range.
	return 1 + sum, err
}

func seriesTerms(ctx context.Context, lo, hi int64) (float64, error) {
	if lo >= hi {
		return 0, nil
	}

	// term = 1/(lo-1)!
	lg, _ := math.Lgamma(float64(lo))
	term := math.Exp(-lg)

	var sum float64

	for i := lo; i < hi; i++ {
		if err := poll(ctx, i); err != nil {
			return 0, err
		}

		term /= float64(i)
		sum += term
	}

	return sum, nil
}

// countKernel counts to the partition length one function call at a time.
type countKernel struct{ rangeKernel }

func (k *countKernel) Run(ctx context.Context, parts []partition.Partition) (float64, error) {
	n, err := reduce(ctx, parts, func(ctx context.Context, p partition.Partition) (int64, error) {
		return countTo(ctx, int64(p.Len()))
	})

	return float64(n), err
}

func countTo(ctx context.Context, n int64) (int64, error) {
	var sum int64

	for i := int64(0); i < n; i++ {
		if err := poll(ctx, i); err != nil {
			return 0, err
		}

		sum = increment(sum)
	}

	return sum, nil
}

//go:noinline
func increment(x int64) int64 { return x + 1 }

// monteCarloKernel estimates pi from random points in the unit square.
// Every partition draws from its own generator seeded from the workload
// seed and the partition index, so workers share no state.
type monteCarloKernel struct{ rangeKernel }

func (k *monteCarloKernel) Run(ctx context.Context, parts []partition.Partition) (float64, error) {
	inside, err := reduce(ctx, parts, func(ctx context.Context, p partition.Partition) (int64, error) {
		rng := mrand.New(mrand.NewSource(k.w.Seed + int64(p.Index)))

		return pointsInside(ctx, rng, int64(p.Len()))
	})
	if err != nil || k.w.Size == 0 {
		return 0, err
	}

	return 4 * float64(inside) / float64(k.w.Size), nil
}

func pointsInside(ctx context.Context, rng *mrand.Rand, n int64) (int64, error) {
	var inside int64

	for i := int64(0); i < n; i++ {
		if err := poll(ctx, i); err != nil {
			return 0, err
		}

		x, y := rng.Float64(), rng.Float64()
		if x*x+y*y <= 1 {
			inside++
		}
	}

	return inside, nil
}
