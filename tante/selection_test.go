package tante

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickWeightedBounds(t *testing.T) {
	tests := []struct {
		name    string
		weights []int
		u       float64
		want    int
	}{
		{"first slot", []int{2, 0, 1}, 0, 0},
		{"end of first slot", []int{2, 0, 1}, 0.66, 0},
		{"zero slot skipped", []int{2, 0, 1}, 0.7, 2},
		{"leading zero", []int{0, 1}, 0, 1},
		{"zero after nonzero", []int{0, 3, 0, 1}, 0.75, 3},
		{"inside middle", []int{0, 3, 0, 1}, 0.74, 1},
		{"top of range", []int{1, 1, 0}, 0.999999999, 1},
		{"all zero", []int{0, 0}, 0.5, -1},
		{"empty", nil, 0.5, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickWeighted(tt.weights, tt.u))
		})
	}
}

func TestPickWeightedDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := []int{2, 0, 1}
	counts := make([]int, len(weights))
	const draws = 30000
	for i := 0; i < draws; i++ {
		idx := pickWeighted(weights, rng.Float64())
		require.GreaterOrEqual(t, idx, 0)
		counts[idx]++
	}
	assert.InDelta(t, 2.0/3.0, float64(counts[0])/draws, 0.02)
	assert.Equal(t, 0, counts[1], "zero-weight kind is never selected")
	assert.InDelta(t, 1.0/3.0, float64(counts[2])/draws, 0.02)
}

func TestRandomOperationUsesSettings(t *testing.T) {
	s := DefaultSettings(1, 1, 1)
	for _, op := range AllOperations {
		s.SetWeight(op, 0)
	}
	s.SetWeight(OpConnectionAdd, 2)
	s.SetWeight(OpWeightStep, 1)
	n := newTestNetwork(t, s, 8)

	counts := make(map[Operation]int)
	// order of the argument does not matter
	ops := []Operation{OpWeightStep, OpHiddenAttach, OpConnectionAdd}
	for i := 0; i < 9000; i++ {
		op, ok := n.RandomOperation(ops)
		require.True(t, ok)
		counts[op]++
	}
	assert.Zero(t, counts[OpHiddenAttach])
	assert.InDelta(t, 6000, counts[OpConnectionAdd], 300)
	assert.InDelta(t, 3000, counts[OpWeightStep], 300)
	assert.Equal(t, []Operation{OpWeightStep, OpHiddenAttach, OpConnectionAdd}, ops, "argument is not reordered")

	_, ok := n.RandomOperation([]Operation{OpHiddenAttach})
	assert.False(t, ok)
}
