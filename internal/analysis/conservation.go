package analysis

import (
	"fmt"

	"netflow/pkg/apperror"
	"netflow/pkg/domain"
)

// VerifyFlow проверяет карту потока относительно графа: антисимметрию,
// соблюдение ёмкостей и закон сохранения потока. Возвращаемый агрегат
// пуст для корректного потока.
func VerifyFlow(g *domain.Graph, flow domain.FlowMap) *apperror.ValidationErrors {
	result := apperror.NewValidationErrors()

	nodes := make(map[int64]bool, g.NodeCount())

	for key, value := range flow {
		nodes[key.From] = true
		nodes[key.To] = true

		// Антисимметрия: flow(u,v) == -flow(v,u)
		if flow[key.Reverse()] != -value {
			result.AddError(apperror.CodeConservationViolation,
				fmt.Sprintf("antisymmetry violated on %s: %d vs %d",
					key, value, flow[key.Reverse()]))
		}

		if value <= 0 {
			continue
		}

		// Положительный поток допустим только по существующему ребру
		// и в пределах его ёмкости
		edge, ok := g.GetEdge(key.From, key.To)
		if !ok {
			result.AddError(apperror.CodeDanglingEdge,
				fmt.Sprintf("flow %d on missing edge %s", value, key))
			continue
		}
		if value > edge.Capacity {
			result.AddError(apperror.CodeCapacityOverflow,
				fmt.Sprintf("flow %d exceeds capacity %d on %s",
					value, edge.Capacity, key))
		}
	}

	// Сохранение потока во всех узлах, кроме источника и стока
	for node := range nodes {
		if node == g.SourceID || node == g.SinkID {
			continue
		}
		if net := flow.NetFlow(node); net != 0 {
			result.AddError(apperror.CodeConservationViolation,
				fmt.Sprintf("conservation violated at node %d: net flow %d", node, net))
		}
	}

	return result
}

// VerifyAttribution проверяет, что декомпозиция покрывает весь исходящий
// поток терминалов: attributed + unattributed == outflow для каждого
// терминала. Расхождение — внутренняя ошибка декомпозиции.
func VerifyAttribution(flow domain.FlowMap, table *AttributionTable) *apperror.ValidationErrors {
	result := apperror.NewValidationErrors()

	for terminal, total := range table.TerminalTotals {
		expected := flow.OutFlow(terminal)
		got := total + table.Unattributed[terminal]
		if got != expected {
			result.AddError(apperror.CodeUnattributedFlow,
				fmt.Sprintf("terminal %d: attributed %d of %d", terminal, got, expected))
		}
	}

	return result
}
