// Package analysis агрегирует результаты расчёта потока: таблицы
// атрибуции терминал → магазин, сводную статистику и рекомендации
// по узким местам.
package analysis

import (
	"fmt"
	"sort"

	"netflow/internal/solver"
	"netflow/pkg/domain"
)

// AttributionRow строка таблицы атрибуции
type AttributionRow struct {
	TerminalID   int64
	TerminalName string
	ShopID       int64
	ShopName     string
	Amount       int64
}

// AttributionTable таблица атрибуции потока по терминалам
type AttributionTable struct {
	Rows           []AttributionRow
	TerminalTotals map[int64]int64
	ShopTotals     map[int64]int64
	Unattributed   map[int64]int64
	TotalAttributed int64
}

// BestTerminal возвращает терминал с наибольшим атрибутированным потоком.
// При равенстве выбирается меньший идентификатор.
func (t *AttributionTable) BestTerminal() (int64, int64) {
	var bestID, bestTotal int64
	first := true
	for _, id := range sortedKeys(t.TerminalTotals) {
		total := t.TerminalTotals[id]
		if first || total > bestTotal {
			bestID, bestTotal = id, total
			first = false
		}
	}
	return bestID, bestTotal
}

// TotalUnattributed возвращает суммарный неатрибутированный поток
func (t *AttributionTable) TotalUnattributed() int64 {
	var total int64
	for _, v := range t.Unattributed {
		total += v
	}
	return total
}

// BuildAttributionTable строит таблицу атрибуции из результатов
// декомпозиции. Имена узлов берутся из графа; строки отсортированы
// по терминалу, затем по магазину.
func BuildAttributionTable(g *domain.Graph, attributions map[int64]*solver.Attribution) *AttributionTable {
	table := &AttributionTable{
		TerminalTotals: make(map[int64]int64, len(attributions)),
		ShopTotals:     make(map[int64]int64),
		Unattributed:   make(map[int64]int64),
	}

	for _, terminalID := range sortedKeys(attributions) {
		attr := attributions[terminalID]
		if attr == nil {
			continue
		}

		table.TerminalTotals[terminalID] = attr.Attributed()
		if attr.Unattributed > 0 {
			table.Unattributed[terminalID] = attr.Unattributed
		}

		for _, shopID := range sortedKeys(attr.Terminals) {
			amount := attr.Terminals[shopID]
			if amount <= 0 {
				continue
			}
			table.Rows = append(table.Rows, AttributionRow{
				TerminalID:   terminalID,
				TerminalName: nodeName(g, terminalID),
				ShopID:       shopID,
				ShopName:     nodeName(g, shopID),
				Amount:       amount,
			})
			table.ShopTotals[shopID] += amount
			table.TotalAttributed += amount
		}
	}

	return table
}

// Recommendation рекомендация по устранению узкого места
type Recommendation struct {
	Type                 string
	Description          string
	AffectedEdge         domain.EdgeKey
	EstimatedImprovement float64
	AdditionalCapacity   int64
}

// GenerateRecommendations формирует рекомендации для узких мест
// уровня high и выше
func GenerateRecommendations(g *domain.Graph, bottlenecks []*domain.BottleneckInfo) []Recommendation {
	var recommendations []Recommendation

	for _, b := range bottlenecks {
		if b.Severity < domain.SeverityHigh {
			continue
		}
		recommendations = append(recommendations, Recommendation{
			Type: "increase_capacity",
			Description: fmt.Sprintf(
				"ребро %s насыщено на %.0f%%: увеличение пропускной способности снимет ограничение",
				b.Edge, b.Utilization*100,
			),
			AffectedEdge:         b.Edge,
			EstimatedImprovement: b.ImpactScore * 100,
			AdditionalCapacity:   suggestedCapacityIncrease(g, b),
		})
	}

	return recommendations
}

// Summary сводный результат анализа сети
type Summary struct {
	Graph           *domain.GraphStatistics
	Flow            *domain.FlowStatistics
	Efficiency      *domain.EfficiencyReport
	Bottlenecks     []*domain.BottleneckInfo
	Recommendations []Recommendation
}

// Analyze выполняет полный анализ графа с применённым потоком
func Analyze(g *domain.Graph, bottleneckThreshold float64) *Summary {
	if bottleneckThreshold <= 0 {
		bottleneckThreshold = domain.DefaultBottleneckThreshold
	}

	bottlenecks := domain.FindBottlenecks(g, bottleneckThreshold)
	sort.Slice(bottlenecks, func(i, j int) bool {
		if bottlenecks[i].Utilization != bottlenecks[j].Utilization {
			return bottlenecks[i].Utilization > bottlenecks[j].Utilization
		}
		return bottlenecks[i].Edge.From < bottlenecks[j].Edge.From
	})

	return &Summary{
		Graph:           domain.CalculateGraphStatistics(g),
		Flow:            domain.CalculateFlowStatistics(g),
		Efficiency:      domain.CalculateEfficiency(g),
		Bottlenecks:     bottlenecks,
		Recommendations: GenerateRecommendations(g, bottlenecks),
	}
}

// suggestedCapacityIncrease оценивает прирост ёмкости, выводящий ребро
// из критической зоны: целевая утилизация — порог low
func suggestedCapacityIncrease(g *domain.Graph, b *domain.BottleneckInfo) int64 {
	edge, ok := g.GetEdge(b.Edge.From, b.Edge.To)
	if !ok || edge.CurrentFlow <= 0 {
		return 0
	}

	target := int64(float64(edge.CurrentFlow)/domain.LowUtilizationThreshold + 0.5)
	if target <= edge.Capacity {
		return 1
	}
	return target - edge.Capacity
}

func nodeName(g *domain.Graph, id int64) string {
	if node, ok := g.GetNode(id); ok && node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("node %d", id)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
