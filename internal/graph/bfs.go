package graph

import (
	"netflow/pkg/domain"
)

// BFSResult is re-exported from the domain package so callers of this
// package do not need a second import for traversal results.
type BFSResult = domain.BFSResult

// =============================================================================
// FIFO frontier
// =============================================================================

// fifo is the BFS frontier: a slice with a moving head, so a full
// traversal does one allocation instead of one per dequeue.
type fifo struct {
	items []int64
	head  int
}

func newFIFO(capacity int) *fifo {
	return &fifo{items: make([]int64, 0, capacity)}
}

func (f *fifo) push(v int64) {
	f.items = append(f.items, v)
}

func (f *fifo) pop() int64 {
	v := f.items[f.head]
	f.head++
	return v
}

func (f *fifo) empty() bool {
	return f.head == len(f.items)
}

// =============================================================================
// Traversals
// =============================================================================

// BFSDeterministic finds a shortest augmenting path from source to sink,
// walking only edges with positive residual capacity.
//
// Neighbors come from GetNeighborsList, whose order is fixed by edge
// insertion, so the same graph always yields the same parent map and
// therefore the same augmenting path. The search stops as soon as the
// sink is labeled.
func BFSDeterministic(g *ResidualGraph, source, sink int64) *BFSResult {
	result := &BFSResult{
		Parent:  map[int64]int64{source: source},
		Visited: map[int64]bool{source: true},
	}

	frontier := newFIFO(len(g.Nodes))
	frontier.push(source)

	for !frontier.empty() {
		u := frontier.pop()

		for _, edge := range g.GetNeighborsList(u) {
			if edge.Capacity <= 0 || result.Visited[edge.To] {
				continue
			}

			result.Parent[edge.To] = u
			result.Visited[edge.To] = true

			if edge.To == sink {
				result.Found = true
				return result
			}
			frontier.push(edge.To)
		}
	}

	return result
}

// BFSReachable returns every node reachable from source through edges
// with positive residual capacity.
//
// Run against the residual graph of a finished max-flow computation,
// the returned set is the source side of a minimum cut: each forward
// edge leaving it is saturated.
func BFSReachable(g *ResidualGraph, source int64) map[int64]bool {
	reachable := map[int64]bool{source: true}

	frontier := newFIFO(len(g.Nodes))
	frontier.push(source)

	for !frontier.empty() {
		u := frontier.pop()

		for _, edge := range g.GetNeighborsList(u) {
			if edge.Capacity > 0 && !reachable[edge.To] {
				reachable[edge.To] = true
				frontier.push(edge.To)
			}
		}
	}

	return reachable
}
