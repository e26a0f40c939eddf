package domain

import "testing"

func TestReconstructPath(t *testing.T) {
	tests := []struct {
		name     string
		parent   map[int64]int64
		source   int64
		sink     int64
		expected []int64
	}{
		{
			name:     "simple_path",
			parent:   map[int64]int64{1: 1, 2: 1, 3: 2},
			source:   1,
			sink:     3,
			expected: []int64{1, 2, 3},
		},
		{
			name:     "direct_edge",
			parent:   map[int64]int64{1: 1, 2: 1},
			source:   1,
			sink:     2,
			expected: []int64{1, 2},
		},
		{
			name:     "sink_not_reached",
			parent:   map[int64]int64{1: 1, 2: 1},
			source:   1,
			sink:     5,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconstructPath(tt.parent, tt.source, tt.sink)
			if len(got) != len(tt.expected) {
				t.Fatalf("ReconstructPath() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("path[%d] = %d, want %d", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestFindMinCapacityOnPath(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: 1})
	g.AddNode(&Node{ID: 2})
	g.AddNode(&Node{ID: 3})
	g.MustAddEdge(&Edge{From: 1, To: 2, Capacity: 10})
	g.MustAddEdge(&Edge{From: 2, To: 3, Capacity: 4})

	if got := FindMinCapacityOnPath(g, []int64{1, 2, 3}); got != 4 {
		t.Errorf("FindMinCapacityOnPath() = %d, want 4", got)
	}

	// Путь с отсутствующим ребром
	if got := FindMinCapacityOnPath(g, []int64{1, 3}); got != 0 {
		t.Errorf("FindMinCapacityOnPath() with missing edge = %d, want 0", got)
	}

	// Слишком короткий путь
	if got := FindMinCapacityOnPath(g, []int64{1}); got != 0 {
		t.Errorf("FindMinCapacityOnPath() with single node = %d, want 0", got)
	}
}

func TestAugmentPath(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: 1})
	g.AddNode(&Node{ID: 2})
	g.AddNode(&Node{ID: 3})
	g.MustAddEdge(&Edge{From: 1, To: 2, Capacity: 10})
	g.MustAddEdge(&Edge{From: 2, To: 3, Capacity: 10})

	AugmentPath(g, []int64{1, 2, 3}, 4)

	if edge, _ := g.GetEdge(1, 2); edge.CurrentFlow != 4 {
		t.Errorf("flow on 1->2 = %d, want 4", edge.CurrentFlow)
	}
	if edge, _ := g.GetEdge(2, 3); edge.CurrentFlow != 4 {
		t.Errorf("flow on 2->3 = %d, want 4", edge.CurrentFlow)
	}
}
