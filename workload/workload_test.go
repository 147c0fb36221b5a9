package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/taipan/fault"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{Kind: KindSort, Size: 500, Seed: 42}

	w1, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)

	w2, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)

	assert.Equal(t, w1.Array, w2.Array, "workloads are not deterministic for same seed")
}

func TestGenerateDifferentSeeds(t *testing.T) {
	w1, err := NewGenerator(Config{Kind: KindSort, Size: 200, Seed: 1}).Generate()
	require.NoError(t, err)

	w2, err := NewGenerator(Config{Kind: KindSort, Size: 200, Seed: 2}).Generate()
	require.NoError(t, err)

	assert.NotEqual(t, w1.Array, w2.Array)
}

func TestGenerateSortValueRange(t *testing.T) {
	w, err := NewGenerator(Config{Kind: KindSort, Size: 10_000, Seed: 7}).Generate()
	require.NoError(t, err)
	require.Len(t, w.Array, 10_000)

	for i, v := range w.Array {
		if v < 0 || v >= MaxValue {
			t.Fatalf("array[%d] = %d, want [0, %d)", i, v, MaxValue)
		}
	}
}

func TestGenerateRanges(t *testing.T) {
	tests := []struct {
		kind   Kind
		lo, hi int64
	}{
		{KindPrime, 0, 100},
		{KindCount, 0, 100},
		{KindMonteCarlo, 0, 100},
		{KindSeries, 1, 101},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w, err := NewGenerator(Config{Kind: tt.kind, Size: 100}).Generate()
			require.NoError(t, err)

			assert.Nil(t, w.Array)
			assert.Equal(t, tt.lo, w.Lo)
			assert.Equal(t, tt.hi, w.Hi())
		})
	}
}

func TestGenerateInvalid(t *testing.T) {
	_, err := NewGenerator(Config{Kind: KindPrime, Size: -1}).Generate()
	assert.True(t, fault.Is(err, fault.InvalidArgument))

	_, err = NewGenerator(Config{Kind: "fibonacci", Size: 10}).Generate()
	assert.True(t, fault.Is(err, fault.InvalidArgument))
}

func TestAllocFailure(t *testing.T) {
	_, err := Alloc[int64](math.MaxInt)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.AllocationFailure))
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.NotEmpty(t, k.Describe())
	}

	_, err := ParseKind("SORT")
	assert.Error(t, err)
}
