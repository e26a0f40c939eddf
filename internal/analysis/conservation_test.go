package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netflow/pkg/apperror"
	"netflow/pkg/domain"
)

func buildLineGraph() *domain.Graph {
	g := domain.NewGraph()
	g.AddNode(&domain.Node{ID: 1, Type: domain.NodeTypeSource})
	g.AddNode(&domain.Node{ID: 2, Type: domain.NodeTypeWarehouse})
	g.AddNode(&domain.Node{ID: 3, Type: domain.NodeTypeSink})
	g.SourceID = 1
	g.SinkID = 3
	g.MustAddEdge(&domain.Edge{From: 1, To: 2, Capacity: 10})
	g.MustAddEdge(&domain.Edge{From: 2, To: 3, Capacity: 10})
	return g
}

func TestVerifyFlow(t *testing.T) {
	t.Run("valid_flow", func(t *testing.T) {
		g := buildLineGraph()

		flow := make(domain.FlowMap)
		flow.Add(1, 2, 10)
		flow.Add(2, 3, 10)

		result := VerifyFlow(g, flow)
		assert.True(t, result.IsValid())
	})

	t.Run("empty_flow", func(t *testing.T) {
		g := buildLineGraph()

		result := VerifyFlow(g, make(domain.FlowMap))
		assert.True(t, result.IsValid())
	})

	t.Run("capacity_exceeded", func(t *testing.T) {
		g := buildLineGraph()

		flow := make(domain.FlowMap)
		flow.Add(1, 2, 15)
		flow.Add(2, 3, 15)

		result := VerifyFlow(g, flow)
		require.True(t, result.HasErrors())
		assert.Equal(t, apperror.CodeCapacityOverflow, result.Errors[0].Code)
	})

	t.Run("conservation_violated", func(t *testing.T) {
		g := buildLineGraph()

		// Узел 2 получает 10, отдаёт 4
		flow := make(domain.FlowMap)
		flow.Add(1, 2, 10)
		flow.Add(2, 3, 4)

		result := VerifyFlow(g, flow)
		require.True(t, result.HasErrors())
		assert.Equal(t, apperror.CodeConservationViolation, result.Errors[0].Code)
	})

	t.Run("flow_on_missing_edge", func(t *testing.T) {
		g := buildLineGraph()

		flow := make(domain.FlowMap)
		flow.Add(1, 3, 5)

		result := VerifyFlow(g, flow)
		require.True(t, result.HasErrors())
		assert.Equal(t, apperror.CodeDanglingEdge, result.Errors[0].Code)
	})

	t.Run("broken_antisymmetry", func(t *testing.T) {
		g := buildLineGraph()

		// Прямое значение без зеркальной записи
		flow := domain.FlowMap{
			{From: 1, To: 2}: 10,
			{From: 2, To: 1}: 0,
			{From: 2, To: 3}: 10,
			{From: 3, To: 2}: -10,
		}

		result := VerifyFlow(g, flow)
		assert.True(t, result.HasErrors())
	})
}

func TestVerifyAttribution(t *testing.T) {
	flow := make(domain.FlowMap)
	flow.Add(1, 2, 10)

	t.Run("complete_attribution", func(t *testing.T) {
		table := &AttributionTable{
			TerminalTotals: map[int64]int64{1: 10},
			Unattributed:   map[int64]int64{},
		}

		assert.True(t, VerifyAttribution(flow, table).IsValid())
	})

	t.Run("unattributed_counted", func(t *testing.T) {
		table := &AttributionTable{
			TerminalTotals: map[int64]int64{1: 7},
			Unattributed:   map[int64]int64{1: 3},
		}

		assert.True(t, VerifyAttribution(flow, table).IsValid())
	})

	t.Run("missing_flow_detected", func(t *testing.T) {
		table := &AttributionTable{
			TerminalTotals: map[int64]int64{1: 7},
			Unattributed:   map[int64]int64{},
		}

		result := VerifyAttribution(flow, table)
		require.True(t, result.HasErrors())
		assert.Equal(t, apperror.CodeUnattributedFlow, result.Errors[0].Code)
	})
}
