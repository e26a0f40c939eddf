package solver

import (
	"context"
	"time"

	"netflow/internal/graph"
	"netflow/pkg/domain"
)

// =============================================================================
// Edmonds-Karp Algorithm
// =============================================================================

// EdmondsKarpResult contains the raw outcome of the augmenting loop.
//
// MaxFlow accumulates the bottleneck of every augmenting path pushed.
// Canceled and Limited distinguish the two ways the loop can stop before
// the residual graph is exhausted.
type EdmondsKarpResult struct {
	MaxFlow    int64
	Iterations int
	Paths      []domain.Path
	Canceled   bool
	Limited    bool
	Duration   time.Duration
}

// EdmondsKarp computes the maximum flow using the Edmonds-Karp algorithm
// without context support. Prefer EdmondsKarpWithContext in production code.
func EdmondsKarp(g *graph.ResidualGraph, source, sink int64, options *Options) *EdmondsKarpResult {
	return EdmondsKarpWithContext(context.Background(), g, source, sink, options)
}

// EdmondsKarpWithContext computes the maximum flow using BFS to find
// shortest augmenting paths.
//
// # Algorithm
//
//  1. While BFS finds a path from source to sink with positive residual capacity:
//     a. Find the bottleneck (minimum residual capacity) along the path
//     b. Augment flow along the path by the bottleneck amount
//  2. Return the accumulated flow
//
// Because BFS always finds a shortest path, the number of augmenting
// iterations is bounded by O(V*E) regardless of capacity values, and the
// sequence of paths is deterministic for a fixed input graph.
//
// # Context Handling
//
// The context is checked every checkInterval iterations to balance
// responsiveness against overhead. On cancellation the flow pushed so far
// is kept and the result is marked Canceled.
//
// # Complexity
//
//   - Time: O(V * E^2)
//   - Space: O(V) for BFS structures
func EdmondsKarpWithContext(ctx context.Context, g *graph.ResidualGraph, source, sink int64, options *Options) *EdmondsKarpResult {
	start := time.Now()

	if options == nil {
		options = DefaultOptions()
	}

	result := &EdmondsKarpResult{}

	// Check context every N iterations to reduce overhead
	const checkInterval = 100

	for {
		if options.MaxIterations > 0 && result.Iterations >= options.MaxIterations {
			// A remaining augmenting path means the flow is not proven maximal
			if bfs := graph.BFSDeterministic(g, source, sink); bfs.Found {
				result.Limited = true
			}
			break
		}

		if result.Iterations%checkInterval == 0 {
			select {
			case <-ctx.Done():
				result.Canceled = true
				result.Duration = time.Since(start)
				return result
			default:
			}
		}

		bfs := graph.BFSDeterministic(g, source, sink)
		if !bfs.Found {
			break
		}

		path := graph.ReconstructPath(bfs.Parent, source, sink)
		if path == nil {
			break
		}

		minCapacity := graph.FindMinCapacityOnPath(g, path)
		if minCapacity <= 0 {
			break
		}

		graph.AugmentPath(g, path, minCapacity)
		result.MaxFlow += minCapacity
		result.Iterations++

		if options.ReturnPaths {
			result.Paths = append(result.Paths, domain.Path{
				Nodes: path,
				Flow:  minCapacity,
			})
		}
	}

	result.Duration = time.Since(start)
	return result
}
