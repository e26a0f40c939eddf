package domain

import "math"

// GraphStatistics статистика графа
type GraphStatistics struct {
	NodeCount      int64
	EdgeCount      int64
	TerminalCount  int64
	WarehouseCount int64
	ShopCount      int64
	TotalCapacity  int64
	IsConnected    bool
	Density        float64
	AverageDegree  float64
	MaxDegree      int
	MinDegree      int
}

// FlowStatistics статистика потока
type FlowStatistics struct {
	TotalFlow          int64
	AverageUtilization float64
	SaturatedEdges     int64
	ZeroFlowEdges      int64
	ActiveEdges        int64
	Bottlenecks        []EdgeKey
}

// realEdges рёбра между реальными узлами, без сентинелов
func realEdges(g *Graph) []*Edge {
	edges := make([]*Edge, 0, len(g.Edges))
	for _, edge := range g.Edges {
		if IsVirtualNode(edge.From) || IsVirtualNode(edge.To) {
			continue
		}
		edges = append(edges, edge)
	}
	return edges
}

// CalculateGraphStatistics вычисляет статистику графа
func CalculateGraphStatistics(g *Graph) *GraphStatistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := &GraphStatistics{
		NodeCount: int64(len(g.Nodes)),
		EdgeCount: int64(len(g.Edges)),
	}

	for _, node := range g.Nodes {
		switch node.Type {
		case NodeTypeTerminal:
			stats.TerminalCount++
		case NodeTypeWarehouse:
			stats.WarehouseCount++
		case NodeTypeShop:
			stats.ShopCount++
		}
	}

	// Безлимитные рёбра не входят в суммарную мощность
	degree := make(map[int64]int)
	for _, edge := range realEdges(g) {
		if !IsUnlimited(edge.Capacity) {
			stats.TotalCapacity += edge.Capacity
		}
		degree[edge.From]++
		degree[edge.To]++
	}
	stats.AverageDegree, stats.MinDegree, stats.MaxDegree = degreeSpread(degree)

	// Плотность относительно полного ориентированного графа
	if stats.NodeCount > 1 {
		stats.Density = float64(stats.EdgeCount) / float64(stats.NodeCount*(stats.NodeCount-1))
	}

	stats.IsConnected = IsConnected(g)
	return stats
}

// degreeSpread средняя, минимальная и максимальная степень вершины
func degreeSpread(degree map[int64]int) (avg float64, min, max int) {
	if len(degree) == 0 {
		return 0, 0, 0
	}

	min = math.MaxInt
	total := 0
	for _, d := range degree {
		total += d
		if d > max {
			max = d
		}
		if d < min {
			min = d
		}
	}
	return float64(total) / float64(len(degree)), min, max
}

// CalculateFlowStatistics вычисляет статистику потока
func CalculateFlowStatistics(g *Graph) *FlowStatistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := &FlowStatistics{Bottlenecks: make([]EdgeKey, 0)}

	var totalUtilization float64
	for _, edge := range realEdges(g) {
		if !edge.HasFlow() {
			stats.ZeroFlowEdges++
			continue
		}

		// Общий поток равен сумме исходящего из источника
		if edge.From == g.SourceID {
			stats.TotalFlow += edge.CurrentFlow
		}

		stats.ActiveEdges++
		totalUtilization += edge.Utilization()

		if edge.IsSaturated() {
			stats.SaturatedEdges++
			stats.Bottlenecks = append(stats.Bottlenecks, edge.Key())
		}
	}

	if stats.ActiveEdges > 0 {
		stats.AverageUtilization = totalUtilization / float64(stats.ActiveEdges)
	}
	return stats
}

// EfficiencyGrade оценка эффективности сети
type EfficiencyGrade string

const (
	GradeA EfficiencyGrade = "A"
	GradeB EfficiencyGrade = "B"
	GradeC EfficiencyGrade = "C"
	GradeD EfficiencyGrade = "D"
	GradeF EfficiencyGrade = "F"
)

// gradeScale границы оценок по средней утилизации, по убыванию
var gradeScale = []struct {
	minUtilization float64
	grade          EfficiencyGrade
}{
	{0.8, GradeA},
	{0.6, GradeB},
	{0.4, GradeC},
	{0.2, GradeD},
	{0, GradeF},
}

// EfficiencyReport отчёт об эффективности
type EfficiencyReport struct {
	OverallEfficiency   float64
	CapacityUtilization float64
	UnusedEdgesCount    int32
	SaturatedEdgesCount int32
	Grade               EfficiencyGrade
}

// CalculateEfficiency вычисляет эффективность использования сети
func CalculateEfficiency(g *Graph) *EfficiencyReport {
	flowStats := CalculateFlowStatistics(g)

	report := &EfficiencyReport{
		OverallEfficiency:   flowStats.AverageUtilization,
		CapacityUtilization: flowStats.AverageUtilization,
		UnusedEdgesCount:    int32(flowStats.ZeroFlowEdges),
		SaturatedEdgesCount: int32(flowStats.SaturatedEdges),
		Grade:               GradeF,
	}

	for _, scale := range gradeScale {
		if flowStats.AverageUtilization >= scale.minUtilization {
			report.Grade = scale.grade
			break
		}
	}
	return report
}

// BottleneckSeverity уровень критичности узкого места
type BottleneckSeverity int

const (
	SeverityLow BottleneckSeverity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s BottleneckSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// severityFor критичность по уровню утилизации ребра
func severityFor(utilization float64) BottleneckSeverity {
	switch {
	case utilization >= CriticalUtilizationThreshold:
		return SeverityCritical
	case utilization >= HighUtilizationThreshold:
		return SeverityHigh
	case utilization >= MediumUtilizationThreshold:
		return SeverityMedium
	}
	return SeverityLow
}

// BottleneckInfo информация об узком месте
type BottleneckInfo struct {
	Edge        EdgeKey
	Utilization float64
	ImpactScore float64
	Severity    BottleneckSeverity
}

// FindBottlenecks находит рёбра с утилизацией не ниже threshold.
// ImpactScore это доля потока ребра в суммарном потоке сети.
func FindBottlenecks(g *Graph, threshold float64) []*BottleneckInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := realEdges(g)

	var totalFlow int64
	for _, edge := range edges {
		if edge.HasFlow() {
			totalFlow += edge.CurrentFlow
		}
	}

	var bottlenecks []*BottleneckInfo
	for _, edge := range edges {
		if !edge.HasFlow() || IsUnlimited(edge.Capacity) {
			continue
		}

		utilization := edge.Utilization()
		if utilization < threshold {
			continue
		}

		info := &BottleneckInfo{
			Edge:        edge.Key(),
			Utilization: utilization,
			Severity:    severityFor(utilization),
		}
		if totalFlow > 0 {
			info.ImpactScore = float64(edge.CurrentFlow) / float64(totalFlow)
		}
		bottlenecks = append(bottlenecks, info)
	}

	return bottlenecks
}
