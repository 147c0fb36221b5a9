package score

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		elapsed time.Duration
		divisor float64
		want    int64
	}{
		{"prime reference", 5_000_000, 2 * time.Second, 666, 3754},
		{"one second", 3333, time.Second, 3333, 1},
		{"rounds half up", 3, time.Second, 2, 2},
		{"bad divisor", 10, time.Second, 0, 10},
		{"zero size", 0, time.Second, 666, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.size, tt.elapsed, tt.divisor))
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	a := Score(123_456_789, 1234*time.Millisecond, 3163.5)
	b := Score(123_456_789, 1234*time.Millisecond, 3163.5)
	assert.Equal(t, a, b)
}

func TestScoreZeroElapsed(t *testing.T) {
	assert.NotPanics(t, func() {
		got := Score(1, 0, 1)
		assert.Equal(t, int64(1e9), got)
	})
}

func TestMeasure(t *testing.T) {
	d, err := Measure(func() error {
		time.Sleep(5 * time.Millisecond)

		return nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)

	boom := errors.New("boom")
	_, err = Measure(func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestCompare(t *testing.T) {
	m := Compare(4*time.Second, time.Second, 8)

	assert.InDelta(t, 4.0, m.Speedup, 1e-9)
	assert.InDelta(t, 0.5, m.Efficiency, 1e-9)
	assert.InDelta(t, 75.0, m.CPUUtilization, 1e-9)
}

func TestCompareZeroDurations(t *testing.T) {
	m := Compare(0, 0, 4)

	assert.InDelta(t, 1.0, m.Speedup, 1e-9)
	assert.InDelta(t, 0.25, m.Efficiency, 1e-9)
	assert.InDelta(t, 0.0, m.CPUUtilization, 1e-9)
}
