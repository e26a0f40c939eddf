package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMinCapacityOnPath(t *testing.T) {
	tests := []struct {
		name  string
		setup func() *ResidualGraph
		path  []int64
		want  int64
	}{
		{
			name: "bottleneck_in_middle",
			setup: func() *ResidualGraph {
				rg := NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				rg.AddEdgeWithReverse(2, 3, 4)
				rg.AddEdgeWithReverse(3, 4, 8)
				return rg
			},
			path: []int64{1, 2, 3, 4},
			want: 4,
		},
		{
			name: "missing_edge",
			setup: func() *ResidualGraph {
				rg := NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				return rg
			},
			path: []int64{1, 3},
			want: 0,
		},
		{
			name: "short_path",
			setup: func() *ResidualGraph {
				return NewResidualGraph()
			},
			path: []int64{1},
			want: 0,
		},
		{
			name: "partially_used_edge",
			setup: func() *ResidualGraph {
				rg := NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				rg.UpdateFlow(1, 2, 7)
				return rg
			},
			path: []int64{1, 2},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := tt.setup()
			assert.Equal(t, tt.want, FindMinCapacityOnPath(rg, tt.path))
		})
	}
}

func TestAugmentPath(t *testing.T) {
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddEdgeWithReverse(2, 3, 10)

	AugmentPath(rg, []int64{1, 2, 3}, 6)

	require.Equal(t, int64(6), rg.GetFlowOnEdge(1, 2))
	require.Equal(t, int64(6), rg.GetFlowOnEdge(2, 3))

	// Остаточные мощности
	assert.Equal(t, int64(4), rg.GetEdge(1, 2).Capacity)
	assert.Equal(t, int64(6), rg.GetEdge(2, 1).Capacity)
}

func TestAugmentPath_CancelsThroughBackEdge(t *testing.T) {
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddEdgeWithReverse(2, 3, 10)
	rg.AddEdgeWithReverse(1, 3, 10)
	rg.AddEdgeWithReverse(2, 4, 10)
	rg.AddEdgeWithReverse(3, 4, 10)

	// Первый путь через 2->3
	AugmentPath(rg, []int64{1, 2, 3, 4}, 5)
	// Второй путь отменяет поток на 2->3 через обратное ребро 3->2
	AugmentPath(rg, []int64{1, 3, 2, 4}, 5)

	assert.Equal(t, int64(5), rg.GetFlowOnEdge(1, 2))
	assert.Equal(t, int64(5), rg.GetFlowOnEdge(1, 3))
	assert.Equal(t, int64(0), rg.GetFlowOnEdge(2, 3))
	assert.Equal(t, int64(5), rg.GetFlowOnEdge(2, 4))
	assert.Equal(t, int64(5), rg.GetFlowOnEdge(3, 4))
}
