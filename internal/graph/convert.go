package graph

import (
	"sort"

	"netflow/pkg/domain"
)

// FromDomain строит остаточный граф из доменного графа.
//
// Узлы и рёбра обходятся в отсортированном порядке, поэтому EdgesList
// получает одинаковый порядок вставки на каждом запуске — это основа
// детерминированности всех алгоритмов над остаточным графом.
func FromDomain(g *domain.Graph) *ResidualGraph {
	rg := NewResidualGraph()

	nodeIDs := make([]int64, 0, len(g.Nodes))
	for id := range g.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	for _, id := range nodeIDs {
		rg.AddNode(id)
	}

	for _, from := range nodeIDs {
		neighbors := append([]int64(nil), g.GetOutgoing(from)...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

		for _, to := range neighbors {
			edge, ok := g.GetEdge(from, to)
			if !ok {
				continue
			}
			rg.AddEdgeWithReverse(from, to, edge.Capacity)
		}
	}

	return rg
}

// FromDomainPooled строит остаточный граф, используя граф из пула.
// Вызывающая сторона обязана вернуть граф в пул через ReleaseGraph.
func FromDomainPooled(g *domain.Graph, pool *GraphPool) *ResidualGraph {
	if pool == nil {
		pool = GetPool()
	}

	rg := pool.AcquireGraph()

	nodeIDs := make([]int64, 0, len(g.Nodes))
	for id := range g.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	for _, id := range nodeIDs {
		rg.AddNode(id)
	}

	for _, from := range nodeIDs {
		neighbors := append([]int64(nil), g.GetOutgoing(from)...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

		for _, to := range neighbors {
			edge, ok := g.GetEdge(from, to)
			if !ok {
				continue
			}
			rg.AddEdgeWithReverse(from, to, edge.Capacity)
		}
	}

	return rg
}
