package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDiamondResidual() *ResidualGraph {
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddEdgeWithReverse(1, 3, 10)
	rg.AddEdgeWithReverse(2, 4, 10)
	rg.AddEdgeWithReverse(3, 4, 10)
	return rg
}

func TestFIFO_Order(t *testing.T) {
	f := newFIFO(4)
	assert.True(t, f.empty())

	f.push(1)
	f.push(2)
	f.push(3)

	assert.Equal(t, int64(1), f.pop())
	assert.Equal(t, int64(2), f.pop())
	assert.Equal(t, int64(3), f.pop())
	assert.True(t, f.empty())
}

func TestBFSDeterministic_FindsShortestPath(t *testing.T) {
	rg := buildDiamondResidual()
	// Длинный обходной путь 1->5->6->4 не должен выбираться
	rg.AddEdgeWithReverse(1, 5, 10)
	rg.AddEdgeWithReverse(5, 6, 10)
	rg.AddEdgeWithReverse(6, 4, 10)

	result := BFSDeterministic(rg, 1, 4)
	require.True(t, result.Found)

	path := ReconstructPath(result.Parent, 1, 4)
	assert.Len(t, path, 3)
	assert.Equal(t, []int64{1, 2, 4}, path)
}

func TestBFSDeterministic_SinkUnreachable(t *testing.T) {
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddNode(3)

	result := BFSDeterministic(rg, 1, 3)
	assert.False(t, result.Found)
}

func TestBFSDeterministic_SkipsZeroCapacity(t *testing.T) {
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddEdgeWithReverse(2, 3, 10)

	// Насыщаем ребро 2->3
	rg.UpdateFlow(2, 3, 10)

	result := BFSDeterministic(rg, 1, 3)
	assert.False(t, result.Found)
}

func TestBFSDeterministic_UsesResidualBackEdges(t *testing.T) {
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.UpdateFlow(1, 2, 10)

	// Прямое направление насыщено, обратное доступно
	result := BFSDeterministic(rg, 2, 1)
	assert.True(t, result.Found)
}

func TestBFSDeterministic_Reproducible(t *testing.T) {
	for i := 0; i < 20; i++ {
		rg := buildDiamondResidual()
		result := BFSDeterministic(rg, 1, 4)
		require.True(t, result.Found)

		path := ReconstructPath(result.Parent, 1, 4)
		assert.Equal(t, []int64{1, 2, 4}, path, "run %d produced different path", i)
	}
}

func TestBFSReachable_MinCutSide(t *testing.T) {
	rg := NewResidualGraph()
	rg.AddEdgeWithReverse(1, 2, 10)
	rg.AddEdgeWithReverse(2, 3, 5)
	rg.AddEdgeWithReverse(3, 4, 10)

	// Насыщаем узкое место 2->3
	rg.UpdateFlow(1, 2, 5)
	rg.UpdateFlow(2, 3, 5)
	rg.UpdateFlow(3, 4, 5)

	reachable := BFSReachable(rg, 1)

	assert.True(t, reachable[1])
	assert.True(t, reachable[2])
	assert.False(t, reachable[3])
	assert.False(t, reachable[4])
}
