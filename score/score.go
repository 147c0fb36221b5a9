// Package score times benchmark runs and turns them into comparable scores.
package score

import (
	"math"
	"time"
)

// MinElapsed is the floor applied to elapsed time before dividing by it.
const MinElapsed = 1e-9

// Measure runs fn and returns its wall-clock duration. time.Now carries a
// monotonic reading, so the result is immune to wall clock adjustments.
func Measure(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()

	return time.Since(start), err
}

// Seconds converts d to seconds, clamped to MinElapsed.
func Seconds(d time.Duration) float64 {
	return math.Max(d.Seconds(), MinElapsed)
}

// Score returns round(size / seconds / divisor). A non-positive divisor is
// treated as 1 so a misconfigured calibration still yields a number.
func Score(size int64, elapsed time.Duration, divisor float64) int64 {
	if divisor <= 0 {
		divisor = 1
	}

	return int64(math.Round(float64(size) / Seconds(elapsed) / divisor))
}

// Metrics describes how well a multi-core run scaled over the single-core
// baseline.
type Metrics struct {
	Speedup        float64 `json:"speedup"`
	Efficiency     float64 `json:"efficiency"`
	CPUUtilization float64 `json:"cpu_utilization"`
}

// Compare derives speedup, efficiency and utilization from the two timings.
func Compare(single, multi time.Duration, workers int) Metrics {
	s, m := Seconds(single), Seconds(multi)
	speedup := s / m

	return Metrics{
		Speedup:        speedup,
		Efficiency:     speedup / float64(max(workers, 1)),
		CPUUtilization: 100 * (1 - m/s),
	}
}
