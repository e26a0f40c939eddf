// Package graph provides the residual graph representation used by the
// flow engine, plus BFS traversals and path helpers over it.
package graph

import (
	"sort"
	"sync"

	"netflow/pkg/domain"
)

// =============================================================================
// Residual Edge
// =============================================================================

// ResidualEdge is one directed edge of the residual graph.
//
// Every original edge (u, v) with capacity c is mirrored by a reverse edge
// (v, u) with capacity 0. Pushing flow f along (u, v) leaves c-f on the
// forward edge and f on the reverse edge, which lets the algorithm cancel
// earlier flow decisions. All quantities are int64, comparisons are exact.
type ResidualEdge struct {
	To int64

	// Capacity is the remaining residual capacity. On forward edges this is
	// OriginalCapacity - Flow; on reverse edges it equals the flow pushed
	// along the corresponding forward edge.
	Capacity int64

	// Flow is the net flow on the edge, meaningful for forward edges only.
	Flow int64

	// OriginalCapacity is the capacity the edge was created with.
	OriginalCapacity int64

	// IsReverse marks automatically created back edges. They are skipped
	// when exporting flow or computing statistics.
	IsReverse bool

	// Index is the position in the owner's EdgesList slice.
	Index int
}

// ResidualCapacity returns the remaining capacity on this edge.
func (e *ResidualEdge) ResidualCapacity() int64 {
	return e.Capacity
}

// HasCapacity reports whether the edge can still carry flow.
func (e *ResidualEdge) HasCapacity() bool {
	return e.Capacity > 0
}

// =============================================================================
// Residual Graph
// =============================================================================

// ResidualGraph is the working structure of the flow engine.
//
// Edges are stored twice: Edges gives O(1) lookup by (from, to), EdgesList
// keeps insertion order so traversals are deterministic and repeated runs
// produce identical flows. Both structures share the same *ResidualEdge
// objects.
//
// The graph is not safe for concurrent mutation. Clone it per goroutine;
// only GetSortedNodes may be called concurrently, it locks internally.
type ResidualGraph struct {
	// Nodes is the node ID set.
	Nodes map[int64]bool

	// Edges indexes edges by source and destination.
	Edges map[int64]map[int64]*ResidualEdge

	// EdgesList keeps per-node outgoing edges in insertion order.
	EdgesList map[int64][]*ResidualEdge

	sortedNodesMu    sync.Mutex
	sortedNodes      []int64
	sortedNodesDirty bool
}

// NewResidualGraph creates an empty residual graph.
func NewResidualGraph() *ResidualGraph {
	return &ResidualGraph{
		Nodes:            make(map[int64]bool),
		Edges:            make(map[int64]map[int64]*ResidualEdge),
		EdgesList:        make(map[int64][]*ResidualEdge),
		sortedNodesDirty: true,
	}
}

// Clear empties the graph so it can be reused, typically via pooling.
func (rg *ResidualGraph) Clear() {
	clear(rg.Nodes)
	for k := range rg.Edges {
		clear(rg.Edges[k])
		delete(rg.Edges, k)
	}
	for k := range rg.EdgesList {
		rg.EdgesList[k] = rg.EdgesList[k][:0]
		delete(rg.EdgesList, k)
	}

	rg.sortedNodesMu.Lock()
	rg.sortedNodes = rg.sortedNodes[:0]
	rg.sortedNodesDirty = true
	rg.sortedNodesMu.Unlock()
}

// AddNode adds a node; adding an existing node is a no-op.
// Nodes are also added implicitly by the edge methods.
func (rg *ResidualGraph) AddNode(id int64) {
	if rg.Nodes[id] {
		return
	}
	rg.Nodes[id] = true

	rg.sortedNodesMu.Lock()
	rg.sortedNodesDirty = true
	rg.sortedNodesMu.Unlock()
}

// AddEdge adds a forward edge.
//
// If an edge between the same nodes already exists, a reverse edge is
// promoted to a forward one (the reverse may have been created first),
// and parallel forward edges have their capacities merged.
func (rg *ResidualGraph) AddEdge(from, to int64, capacity int64) {
	rg.AddNode(from)
	rg.AddNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}

	if existing := rg.Edges[from][to]; existing != nil {
		if existing.IsReverse {
			existing.OriginalCapacity = capacity
			existing.Capacity = capacity
			existing.IsReverse = false
		} else {
			existing.Capacity += capacity
			existing.OriginalCapacity += capacity
		}
		return
	}

	rg.insertEdge(from, &ResidualEdge{
		To:               to,
		Capacity:         capacity,
		OriginalCapacity: capacity,
	})
}

// AddReverseEdge adds a zero-capacity back edge unless an edge between
// the nodes already exists.
func (rg *ResidualGraph) AddReverseEdge(from, to int64) {
	rg.AddNode(from)
	rg.AddNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}
	if rg.Edges[from][to] != nil {
		return
	}

	rg.insertEdge(from, &ResidualEdge{
		To:        to,
		IsReverse: true,
	})
}

// AddEdgeWithReverse adds the forward edge and its zero-capacity mirror.
// This is the normal way to build a flow network.
func (rg *ResidualGraph) AddEdgeWithReverse(from, to int64, capacity int64) {
	rg.AddEdge(from, to, capacity)
	rg.AddReverseEdge(to, from)
}

// insertEdge wires a new edge into both storage structures.
func (rg *ResidualGraph) insertEdge(from int64, edge *ResidualEdge) {
	edge.Index = len(rg.EdgesList[from])
	rg.Edges[from][edge.To] = edge
	rg.EdgesList[from] = append(rg.EdgesList[from], edge)
}

// =============================================================================
// Lookup
// =============================================================================

// GetEdge returns the edge from 'from' to 'to', or nil.
func (rg *ResidualGraph) GetEdge(from, to int64) *ResidualEdge {
	return rg.Edges[from][to]
}

// GetNeighborsList returns outgoing edges in insertion order.
// Algorithms must iterate this way to stay deterministic.
func (rg *ResidualGraph) GetNeighborsList(node int64) []*ResidualEdge {
	return rg.EdgesList[node]
}

// GetNodes returns all node IDs in ascending order.
func (rg *ResidualGraph) GetNodes() []int64 {
	return rg.GetSortedNodes()
}

// GetSortedNodes returns node IDs sorted ascending. The result is cached
// and invalidated on node insertion; safe for concurrent readers.
func (rg *ResidualGraph) GetSortedNodes() []int64 {
	rg.sortedNodesMu.Lock()
	defer rg.sortedNodesMu.Unlock()

	if rg.sortedNodesDirty || len(rg.sortedNodes) != len(rg.Nodes) {
		rg.sortedNodes = rg.sortedNodes[:0]
		for node := range rg.Nodes {
			rg.sortedNodes = append(rg.sortedNodes, node)
		}
		sort.Slice(rg.sortedNodes, func(i, j int) bool {
			return rg.sortedNodes[i] < rg.sortedNodes[j]
		})
		rg.sortedNodesDirty = false
	}

	return rg.sortedNodes
}

// NodeCount returns the number of nodes.
func (rg *ResidualGraph) NodeCount() int {
	return len(rg.Nodes)
}

// EdgeCount returns the number of edges, reverse edges included.
func (rg *ResidualGraph) EdgeCount() int {
	count := 0
	for _, edges := range rg.EdgesList {
		count += len(edges)
	}
	return count
}

// GetAllEdges returns forward edges in deterministic order.
func (rg *ResidualGraph) GetAllEdges() []*ResidualEdge {
	var result []*ResidualEdge
	for _, from := range rg.GetSortedNodes() {
		for _, edge := range rg.EdgesList[from] {
			if !edge.IsReverse {
				result = append(result, edge)
			}
		}
	}
	return result
}

// =============================================================================
// Flow Operations
// =============================================================================

// UpdateFlow pushes flow along (from, to): the edge loses residual
// capacity, the mirror edge gains it. Pushing along a reverse edge
// cancels flow on its forward partner, so Flow always holds the net
// value. The mirror is created on demand.
func (rg *ResidualGraph) UpdateFlow(from, to int64, flow int64) {
	if edge := rg.GetEdge(from, to); edge != nil {
		edge.Capacity -= flow
		if !edge.IsReverse {
			edge.Flow += flow
		}
	}

	backEdge := rg.GetEdge(to, from)
	if backEdge == nil {
		if rg.Edges[to] == nil {
			rg.Edges[to] = make(map[int64]*ResidualEdge)
		}
		backEdge = &ResidualEdge{To: from, IsReverse: true}
		rg.insertEdge(to, backEdge)
	}
	backEdge.Capacity += flow
	if !backEdge.IsReverse {
		backEdge.Flow -= flow
	}
}

// GetFlowOnEdge returns the net flow on an edge, 0 if it doesn't exist.
func (rg *ResidualGraph) GetFlowOnEdge(from, to int64) int64 {
	if edge := rg.GetEdge(from, to); edge != nil {
		return edge.Flow
	}
	return 0
}

// GetTotalFlow sums the flow leaving the source, which equals the flow
// value of the network.
func (rg *ResidualGraph) GetTotalFlow(source int64) int64 {
	var total int64
	for _, edge := range rg.EdgesList[source] {
		if !edge.IsReverse && edge.Flow > 0 {
			total += edge.Flow
		}
	}
	return total
}

// FlowSnapshot exports the current flow as an antisymmetric flow map:
// each positive flow f on (u, v) yields flow[(u,v)] = f and
// flow[(v,u)] = -f. The snapshot is independent of the graph and
// survives graph reuse or pooling.
func (rg *ResidualGraph) FlowSnapshot() domain.FlowMap {
	flow := make(domain.FlowMap)
	for _, from := range rg.GetSortedNodes() {
		for _, edge := range rg.EdgesList[from] {
			if !edge.IsReverse && edge.Flow > 0 {
				flow[domain.EdgeKey{From: from, To: edge.To}] = edge.Flow
				flow[domain.EdgeKey{From: edge.To, To: from}] = -edge.Flow
			}
		}
	}
	return flow
}

// Reset clears all flow and restores original capacities, keeping the
// graph structure for another run.
func (rg *ResidualGraph) Reset() {
	for _, edges := range rg.EdgesList {
		for _, edge := range edges {
			if edge.IsReverse {
				edge.Capacity = 0
			} else {
				edge.Capacity = edge.OriginalCapacity
			}
			edge.Flow = 0
		}
	}
}

// =============================================================================
// Cloning
// =============================================================================

// Clone returns an independent deep copy of the graph.
func (rg *ResidualGraph) Clone() *ResidualGraph {
	return rg.cloneInto(NewResidualGraph())
}

// CloneToPooled deep-copies into a graph taken from the pool. The caller
// owns the clone and must release it back to the pool.
func (rg *ResidualGraph) CloneToPooled(pool *GraphPool) *ResidualGraph {
	return rg.cloneInto(pool.AcquireGraph())
}

func (rg *ResidualGraph) cloneInto(clone *ResidualGraph) *ResidualGraph {
	for node := range rg.Nodes {
		clone.Nodes[node] = true
	}

	for from, edges := range rg.EdgesList {
		clone.Edges[from] = make(map[int64]*ResidualEdge, len(edges))
		clone.EdgesList[from] = make([]*ResidualEdge, 0, len(edges))

		for _, edge := range edges {
			copied := *edge
			clone.insertEdge(from, &copied)
		}
	}

	clone.sortedNodesMu.Lock()
	clone.sortedNodesDirty = true
	clone.sortedNodesMu.Unlock()
	return clone
}
