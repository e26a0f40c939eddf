package graph

import (
	"netflow/pkg/domain"
)

// ReconstructPath turns a BFS parent map into the node sequence
// source..sink. The parent encoding is shared with the domain package.
func ReconstructPath(parent map[int64]int64, source, sink int64) []int64 {
	return domain.ReconstructPath(parent, source, sink)
}

// FindMinCapacityOnPath returns the residual bottleneck along path.
// A path shorter than one edge, or one that crosses a missing edge,
// yields 0 and must not be augmented.
func FindMinCapacityOnPath(g *ResidualGraph, path []int64) int64 {
	if len(path) < 2 {
		return 0
	}

	var bottleneck int64
	for i := 1; i < len(path); i++ {
		edge := g.GetEdge(path[i-1], path[i])
		if edge == nil {
			return 0
		}
		if i == 1 || edge.Capacity < bottleneck {
			bottleneck = edge.Capacity
		}
	}

	return bottleneck
}

// AugmentPath pushes flow along every edge of the path. The caller is
// responsible for flow not exceeding FindMinCapacityOnPath.
func AugmentPath(g *ResidualGraph, path []int64, flow int64) {
	for i := 1; i < len(path); i++ {
		g.UpdateFlow(path[i-1], path[i], flow)
	}
}
