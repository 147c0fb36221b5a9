package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/taipan/fault"
)

func TestSplitInvariants(t *testing.T) {
	sizes := []int{0, 1, 2, 7, 17, 100, 1000, 1001}
	workers := []int{1, 2, 3, 4, 7, 8, 16, 2000}

	for _, size := range sizes {
		for _, k := range workers {
			t.Run(fmt.Sprintf("S=%d/K=%d", size, k), func(t *testing.T) {
				parts, err := Split(size, k)
				require.NoError(t, err)
				require.Len(t, parts, k)

				lo, hi := size/k, (size+k-1)/k
				total, next := 0, 0

				for i, p := range parts {
					assert.Equal(t, i, p.Index)
					assert.Equal(t, next, p.Start, "partition %d has a gap", i)
					assert.GreaterOrEqual(t, p.Len(), lo)
					assert.LessOrEqual(t, p.Len(), hi)

					total += p.Len()
					next = p.End
				}

				assert.Equal(t, size, total)
				assert.Equal(t, size, next)
			})
		}
	}
}

func TestSplitRemainderGoesFirst(t *testing.T) {
	parts, err := Split(10, 4)
	require.NoError(t, err)

	want := []Partition{
		{Index: 0, Start: 0, End: 3},
		{Index: 1, Start: 3, End: 6},
		{Index: 2, Start: 6, End: 8},
		{Index: 3, Start: 8, End: 10},
	}
	assert.Equal(t, want, parts)
}

func TestSplitSingleWorker(t *testing.T) {
	parts, err := Split(42, 1)
	require.NoError(t, err)
	assert.Equal(t, []Partition{{Index: 0, Start: 0, End: 42}}, parts)
}

func TestSplitInvalid(t *testing.T) {
	tests := []struct {
		name    string
		size, k int
	}{
		{"zero workers", 10, 0},
		{"negative workers", 10, -3},
		{"negative size", -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.size, tt.k)
			require.Error(t, err)
			assert.True(t, fault.Is(err, fault.InvalidArgument))
		})
	}
}
