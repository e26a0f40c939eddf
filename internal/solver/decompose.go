package solver

import (
	"netflow/pkg/domain"
)

// =============================================================================
// Flow Decomposition
// =============================================================================

// Attribution is the result of decomposing a flow into per-terminal shares.
//
// Terminals maps each terminal node to the amount of flow routed from the
// entry node through that terminal. Unattributed holds flow leaving the
// entry node that no entry-to-terminal path could account for, which can
// only happen when the flow map contains a cycle.
type Attribution struct {
	// Entry is the node whose outgoing flow was decomposed.
	Entry int64

	// Terminals maps terminal node ID to attributed flow amount.
	Terminals map[int64]int64

	// Unattributed is flow leaving the entry node that remained after
	// all entry-to-terminal paths were exhausted.
	Unattributed int64
}

// Attributed returns the total flow attributed across all terminals.
func (a *Attribution) Attributed() int64 {
	var total int64
	for _, amount := range a.Terminals {
		total += amount
	}
	return total
}

// Total returns the full out-flow of the entry node: attributed plus
// unattributed. For a valid flow map this equals the flow leaving entry.
func (a *Attribution) Total() int64 {
	return a.Attributed() + a.Unattributed
}

// Decompose attributes the flow leaving an entry node to terminal nodes.
//
// # Algorithm
//
// The positive entries of the flow map are treated as a directed graph of
// remaining flow. The decomposition repeatedly:
//
//  1. Searches depth-first from entry for a path to any terminal, using
//     only edges with remaining flow and passing only through interior
//     nodes. Neighbors are visited in ascending node ID order, so the
//     search is deterministic for a fixed flow map.
//  2. Subtracts the path bottleneck from every edge on the path and
//     credits it to the terminal the path reached.
//
// The loop ends when no entry-to-terminal path remains. Whatever out-flow
// of entry is still unconsumed at that point is reported as Unattributed;
// with an acyclic flow map this is always zero.
//
// # Parameters
//
//   - flow: an antisymmetric flow map, typically Result.Flow.
//   - entry: the node whose out-flow is being attributed.
//   - interior: nodes the search may pass through. Nodes outside this set
//     that are not terminals are never entered.
//   - isTerminal: predicate identifying terminal nodes. A path stops at
//     the first terminal it reaches.
//
// # Complexity
//
// Each found path removes at least one edge from the remaining graph, so
// at most E paths are extracted; each search is O(V + E).
func Decompose(flow domain.FlowMap, entry int64, interior map[int64]bool, isTerminal func(int64) bool) *Attribution {
	attribution := &Attribution{
		Entry:     entry,
		Terminals: make(map[int64]int64),
	}

	if len(flow) == 0 || isTerminal == nil {
		return attribution
	}

	// PositiveEdges returns keys sorted by (From, To), so each adjacency
	// list comes out in ascending neighbor order.
	remaining := make(map[domain.EdgeKey]int64)
	adjacency := make(map[int64][]int64)
	for _, key := range flow.PositiveEdges() {
		remaining[key] = flow[key]
		adjacency[key.From] = append(adjacency[key.From], key.To)
	}

	for {
		path, terminal, found := findAttributionPath(adjacency, remaining, entry, interior, isTerminal)
		if !found {
			break
		}

		bottleneck := pathBottleneck(remaining, path)
		if bottleneck <= 0 {
			break
		}

		for i := 0; i < len(path)-1; i++ {
			remaining[domain.EdgeKey{From: path[i], To: path[i+1]}] -= bottleneck
		}
		attribution.Terminals[terminal] += bottleneck
	}

	// Out-flow of entry still stuck in the remaining graph is trapped in
	// cycles and cannot be credited to any terminal.
	for _, to := range adjacency[entry] {
		attribution.Unattributed += remaining[domain.EdgeKey{From: entry, To: to}]
	}

	return attribution
}

// dfsFrame is one level of the iterative depth-first search: the node
// being expanded and the index of its next unexplored neighbor.
type dfsFrame struct {
	node int64
	next int
}

// findAttributionPath searches depth-first from entry for a path to any
// terminal over edges with remaining flow.
//
// The search uses an explicit stack rather than recursion so that deep
// chain-shaped networks cannot overflow the goroutine stack. Each node is
// entered at most once per search, which guarantees termination even when
// the remaining graph contains cycles.
func findAttributionPath(
	adjacency map[int64][]int64,
	remaining map[domain.EdgeKey]int64,
	entry int64,
	interior map[int64]bool,
	isTerminal func(int64) bool,
) ([]int64, int64, bool) {
	visited := map[int64]bool{entry: true}
	stack := []dfsFrame{{node: entry}}
	path := []int64{entry}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		neighbors := adjacency[top.node]

		advanced := false
		for top.next < len(neighbors) {
			to := neighbors[top.next]
			top.next++

			if remaining[domain.EdgeKey{From: top.node, To: to}] <= 0 {
				continue
			}
			if isTerminal(to) {
				result := make([]int64, len(path)+1)
				copy(result, path)
				result[len(path)] = to
				return result, to, true
			}
			if !interior[to] || visited[to] {
				continue
			}

			visited[to] = true
			stack = append(stack, dfsFrame{node: to})
			path = append(path, to)
			advanced = true
			break
		}

		if !advanced {
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}

	return nil, 0, false
}

// pathBottleneck returns the minimum remaining flow along a path.
func pathBottleneck(remaining map[domain.EdgeKey]int64, path []int64) int64 {
	if len(path) < 2 {
		return 0
	}
	bottleneck := remaining[domain.EdgeKey{From: path[0], To: path[1]}]
	for i := 1; i < len(path)-1; i++ {
		if r := remaining[domain.EdgeKey{From: path[i], To: path[i+1]}]; r < bottleneck {
			bottleneck = r
		}
	}
	return bottleneck
}
