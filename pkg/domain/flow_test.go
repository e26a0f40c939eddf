package domain

import "testing"

func TestFlowMap_AddAntisymmetry(t *testing.T) {
	flow := make(FlowMap)
	flow.Add(1, 2, 10)

	if got := flow.Flow(1, 2); got != 10 {
		t.Errorf("Flow(1,2) = %d, want 10", got)
	}
	if got := flow.Flow(2, 1); got != -10 {
		t.Errorf("Flow(2,1) = %d, want -10", got)
	}

	// Частичная отмена через обратное направление
	flow.Add(2, 1, 4)
	if got := flow.Flow(1, 2); got != 6 {
		t.Errorf("Flow(1,2) after cancellation = %d, want 6", got)
	}
	if got := flow.Flow(2, 1); got != -6 {
		t.Errorf("Flow(2,1) after cancellation = %d, want -6", got)
	}
}

func TestFlowMap_OutFlow(t *testing.T) {
	flow := make(FlowMap)
	flow.Add(1, 2, 10)
	flow.Add(1, 3, 5)
	flow.Add(2, 4, 10)

	if got := flow.OutFlow(1); got != 15 {
		t.Errorf("OutFlow(1) = %d, want 15", got)
	}
	// Отрицательные зеркальные записи не должны учитываться
	if got := flow.OutFlow(4); got != 0 {
		t.Errorf("OutFlow(4) = %d, want 0", got)
	}
}

func TestFlowMap_NetFlow(t *testing.T) {
	flow := make(FlowMap)
	flow.Add(1, 2, 10)
	flow.Add(2, 3, 10)

	// Транзитный узел: вход равен выходу
	if got := flow.NetFlow(2); got != 0 {
		t.Errorf("NetFlow(2) = %d, want 0", got)
	}
	// Источник: только выход
	if got := flow.NetFlow(1); got != -10 {
		t.Errorf("NetFlow(1) = %d, want -10", got)
	}
	// Сток: только вход
	if got := flow.NetFlow(3); got != 10 {
		t.Errorf("NetFlow(3) = %d, want 10", got)
	}
}

func TestFlowMap_PositiveEdges_Deterministic(t *testing.T) {
	flow := make(FlowMap)
	flow.Add(3, 4, 1)
	flow.Add(1, 2, 1)
	flow.Add(1, 5, 1)

	keys := flow.PositiveEdges()
	if len(keys) != 3 {
		t.Fatalf("expected 3 positive edges, got %d", len(keys))
	}

	want := []EdgeKey{{1, 2}, {1, 5}, {3, 4}}
	for i, k := range keys {
		if k != want[i] {
			t.Errorf("keys[%d] = %v, want %v", i, k, want[i])
		}
	}
}

func TestFlowMap_Clone(t *testing.T) {
	flow := make(FlowMap)
	flow.Add(1, 2, 10)

	clone := flow.Clone()
	clone.Add(1, 2, 5)

	if got := flow.Flow(1, 2); got != 10 {
		t.Errorf("original changed after clone modification: %d", got)
	}
	if got := clone.Flow(1, 2); got != 15 {
		t.Errorf("clone Flow(1,2) = %d, want 15", got)
	}
}
