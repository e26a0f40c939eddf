package cache

import (
	"testing"

	"netflow/pkg/domain"
)

func buildHashGraph(capacity int64) *domain.Graph {
	g := domain.NewGraph()
	g.AddNode(&domain.Node{ID: 1, Type: domain.NodeTypeSource})
	g.AddNode(&domain.Node{ID: 2, Type: domain.NodeTypeWarehouse})
	g.AddNode(&domain.Node{ID: 3, Type: domain.NodeTypeSink})
	g.SourceID = 1
	g.SinkID = 3
	g.MustAddEdge(&domain.Edge{From: 1, To: 2, Capacity: capacity})
	g.MustAddEdge(&domain.Edge{From: 2, To: 3, Capacity: 5})
	return g
}

func TestGraphHash_Stable(t *testing.T) {
	if got := GraphHash(nil); got != "" {
		t.Errorf("GraphHash(nil) = %q, want empty", got)
	}

	g := buildHashGraph(10)
	if GraphHash(g) != GraphHash(g) {
		t.Error("repeated hashing of the same graph diverged")
	}

	if GraphHash(buildHashGraph(10)) != GraphHash(g) {
		t.Error("structurally equal graphs hashed differently")
	}
}

func TestGraphHash_InsertionOrderIndependent(t *testing.T) {
	reference := GraphHash(buildHashGraph(10))

	// Тот же граф, но узлы и рёбра добавлены в другом порядке
	g := domain.NewGraph()
	g.AddNode(&domain.Node{ID: 3, Type: domain.NodeTypeSink})
	g.AddNode(&domain.Node{ID: 1, Type: domain.NodeTypeSource})
	g.AddNode(&domain.Node{ID: 2, Type: domain.NodeTypeWarehouse})
	g.SourceID = 1
	g.SinkID = 3
	g.MustAddEdge(&domain.Edge{From: 2, To: 3, Capacity: 5})
	g.MustAddEdge(&domain.Edge{From: 1, To: 2, Capacity: 10})

	if GraphHash(g) != reference {
		t.Error("hash depends on insertion order")
	}
}

func TestGraphHash_SensitiveToChanges(t *testing.T) {
	reference := GraphHash(buildHashGraph(10))

	tests := []struct {
		name   string
		mutate func(*domain.Graph)
	}{
		{
			name:   "capacity_change",
			mutate: func(g *domain.Graph) { g.Edges[domain.EdgeKey{From: 1, To: 2}].Capacity = 20 },
		},
		{
			name:   "source_change",
			mutate: func(g *domain.Graph) { g.SourceID = 2 },
		},
		{
			name:   "node_type_change",
			mutate: func(g *domain.Graph) { g.Nodes[2].Type = domain.NodeTypeShop },
		},
		{
			name: "extra_edge",
			mutate: func(g *domain.Graph) {
				g.MustAddEdge(&domain.Edge{From: 1, To: 3, Capacity: 1})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildHashGraph(10)
			tt.mutate(g)

			if GraphHash(g) == reference {
				t.Error("mutated graph kept the same hash")
			}
		})
	}
}

func TestBuildSolveKey(t *testing.T) {
	key := BuildSolveKey("abc123", AlgorithmEdmondsKarp)
	if want := "solve:edmonds_karp:abc123"; key != want {
		t.Errorf("BuildSolveKey() = %q, want %q", key, want)
	}
}
