package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netflow/internal/graph"
)

// buildCLRSNetwork builds the classic six-node network with maximum flow 23.
func buildCLRSNetwork() *graph.ResidualGraph {
	rg := graph.NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 16)
	rg.AddEdgeWithReverse(1, 3, 13)
	rg.AddEdgeWithReverse(2, 4, 12)
	rg.AddEdgeWithReverse(3, 2, 4)
	rg.AddEdgeWithReverse(3, 5, 14)
	rg.AddEdgeWithReverse(4, 3, 9)
	rg.AddEdgeWithReverse(4, 6, 20)
	rg.AddEdgeWithReverse(5, 4, 7)
	rg.AddEdgeWithReverse(5, 6, 4)
	return rg
}

func TestEdmondsKarp(t *testing.T) {
	tests := []struct {
		name   string
		setup  func() *graph.ResidualGraph
		source int64
		sink   int64
		want   int64
	}{
		{
			name: "simple_two_node",
			setup: func() *graph.ResidualGraph {
				rg := graph.NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				return rg
			},
			source: 1,
			sink:   2,
			want:   10,
		},
		{
			name: "linear_graph",
			setup: func() *graph.ResidualGraph {
				rg := graph.NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				rg.AddEdgeWithReverse(2, 3, 5)
				rg.AddEdgeWithReverse(3, 4, 8)
				return rg
			},
			source: 1,
			sink:   4,
			want:   5,
		},
		{
			name: "parallel_paths",
			setup: func() *graph.ResidualGraph {
				rg := graph.NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				rg.AddEdgeWithReverse(1, 3, 5)
				rg.AddEdgeWithReverse(2, 4, 10)
				rg.AddEdgeWithReverse(3, 4, 5)
				return rg
			},
			source: 1,
			sink:   4,
			want:   15,
		},
		{
			name: "diamond_graph_with_cross_edge",
			setup: func() *graph.ResidualGraph {
				rg := graph.NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				rg.AddEdgeWithReverse(1, 3, 10)
				rg.AddEdgeWithReverse(2, 3, 5)
				rg.AddEdgeWithReverse(2, 4, 5)
				rg.AddEdgeWithReverse(3, 4, 15)
				return rg
			},
			source: 1,
			sink:   4,
			want:   20,
		},
		{
			name: "no_path",
			setup: func() *graph.ResidualGraph {
				rg := graph.NewResidualGraph()
				rg.AddEdgeWithReverse(1, 2, 10)
				rg.AddEdgeWithReverse(3, 4, 10)
				return rg
			},
			source: 1,
			sink:   4,
			want:   0,
		},
		{
			name:   "complex_network",
			setup:  buildCLRSNetwork,
			source: 1,
			sink:   6,
			want:   23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := tt.setup()
			result := EdmondsKarp(rg, tt.source, tt.sink, nil)

			assert.Equal(t, tt.want, result.MaxFlow)
			assert.False(t, result.Canceled)
			assert.False(t, result.Limited)
		})
	}
}

func TestEdmondsKarp_ReturnPaths(t *testing.T) {
	rg := graph.NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddEdgeWithReverse(1, 3, 5)
	rg.AddEdgeWithReverse(2, 4, 10)
	rg.AddEdgeWithReverse(3, 4, 5)

	opts := DefaultOptions().WithReturnPaths(true)
	result := EdmondsKarp(rg, 1, 4, opts)

	require.Equal(t, int64(15), result.MaxFlow)
	require.Len(t, result.Paths, 2)

	var total int64
	for _, p := range result.Paths {
		total += p.Flow
	}
	assert.Equal(t, result.MaxFlow, total)

	// BFS iterates edges in insertion order, so the first path goes via node 2
	assert.Equal(t, []int64{1, 2, 4}, result.Paths[0].Nodes)
	assert.Equal(t, []int64{1, 3, 4}, result.Paths[1].Nodes)
}

func TestEdmondsKarp_IterationLimit(t *testing.T) {
	rg := graph.NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddEdgeWithReverse(1, 3, 5)
	rg.AddEdgeWithReverse(2, 4, 10)
	rg.AddEdgeWithReverse(3, 4, 5)

	opts := DefaultOptions().WithMaxIterations(1)
	result := EdmondsKarp(rg, 1, 4, opts)

	assert.Equal(t, 1, result.Iterations)
	assert.True(t, result.Limited)
	assert.Less(t, result.MaxFlow, int64(15))
}

func TestEdmondsKarp_ContextCancellation(t *testing.T) {
	rg := buildCLRSNetwork()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := EdmondsKarpWithContext(ctx, rg, 1, 6, nil)

	assert.True(t, result.Canceled)
	assert.Equal(t, int64(0), result.MaxFlow)
}

func TestEdmondsKarp_Deterministic(t *testing.T) {
	var firstPaths []int64
	for i := 0; i < 10; i++ {
		rg := buildCLRSNetwork()
		opts := DefaultOptions().WithReturnPaths(true)
		result := EdmondsKarp(rg, 1, 6, opts)

		require.Equal(t, int64(23), result.MaxFlow, "run %d", i)

		var flat []int64
		for _, p := range result.Paths {
			flat = append(flat, p.Nodes...)
			flat = append(flat, -1)
		}
		if firstPaths == nil {
			firstPaths = flat
		} else {
			assert.Equal(t, firstPaths, flat, "run %d produced different augmenting paths", i)
		}
	}
}
