package merge

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/partition"
)

func sortRuns[T any](data []T, parts []partition.Partition, cmp func(a, b T) int) {
	for _, p := range parts {
		slices.SortStableFunc(data[p.Start:p.End], cmp)
	}
}

func TestRunsMatchesReferenceSort(t *testing.T) {
	for _, size := range []int{0, 1, 17, 1000} {
		for _, k := range []int{1, 3, 8} {
			t.Run(fmt.Sprintf("S=%d/K=%d", size, k), func(t *testing.T) {
				rng := rand.New(rand.NewSource(int64(size*31 + k)))

				data := make([]int32, size)
				for i := range data {
					data[i] = int32(rng.Intn(1000))
				}

				want := slices.Clone(data)
				slices.Sort(want)

				parts, err := partition.Split(size, k)
				require.NoError(t, err)

				sortRuns(data, parts, cmp.Compare[int32])
				require.NoError(t, Runs(data, parts, cmp.Compare[int32]))

				if diff := gocmp.Diff(want, data); diff != "" {
					t.Errorf("merged output mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestRunsUnevenRunLengths(t *testing.T) {
	// Five runs of unequal, non power-of-two lengths, including an empty one.
	parts := []partition.Partition{
		{Index: 0, Start: 0, End: 3},
		{Index: 1, Start: 3, End: 3},
		{Index: 2, Start: 3, End: 10},
		{Index: 3, Start: 10, End: 11},
		{Index: 4, Start: 11, End: 16},
	}
	data := []int{9, 20, 30, 1, 2, 3, 4, 50, 60, 70, 0, 5, 6, 7, 8, 100}

	require.NoError(t, Runs(data, parts, cmp.Compare[int]))
	assert.True(t, slices.IsSorted(data), "not sorted: %v", data)
	assert.Len(t, data, 16)
}

type keyed struct {
	key int
	run int
}

func TestRunsStable(t *testing.T) {
	parts, err := partition.Split(30, 7)
	require.NoError(t, err)

	data := make([]keyed, 30)
	for _, p := range parts {
		for i := p.Start; i < p.End; i++ {
			data[i] = keyed{key: i % 3, run: p.Index}
		}
	}

	byKey := func(a, b keyed) int { return cmp.Compare(a.key, b.key) }

	sortRuns(data, parts, byKey)
	require.NoError(t, Runs(data, parts, byKey))

	for i := 1; i < len(data); i++ {
		prev, cur := data[i-1], data[i]
		require.LessOrEqual(t, prev.key, cur.key)

		if prev.key == cur.key {
			assert.LessOrEqual(t, prev.run, cur.run,
				"equal keys out of run order at %d", i)
		}
	}
}

func TestRunsRejectsBadPartitions(t *testing.T) {
	data := []int{3, 2, 1}

	tests := []struct {
		name  string
		parts []partition.Partition
	}{
		{"gap", []partition.Partition{
			{Index: 0, Start: 0, End: 1},
			{Index: 1, Start: 2, End: 3},
		}},
		{"short", []partition.Partition{
			{Index: 0, Start: 0, End: 2},
		}},
		{"overlap", []partition.Partition{
			{Index: 0, Start: 0, End: 2},
			{Index: 1, Start: 1, End: 3},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Runs(data, tt.parts, cmp.Compare[int])
			require.Error(t, err)
			assert.True(t, fault.Is(err, fault.InvalidArgument))
		})
	}
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(25), Sum([]int64{4, 0, 21}))
	assert.Equal(t, int64(0), Sum[int64](nil))
	assert.InDelta(t, 3.5, Sum([]float64{1, 2, 0.5}), 1e-12)
}
