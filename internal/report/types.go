package report

import (
	"sort"
	"time"

	"netflow/internal/analysis"
	"netflow/internal/solver"
	"netflow/pkg/domain"
)

// NetworkInfo сведения о сети для отчёта
type NetworkInfo struct {
	Name     string
	Nodes    int
	Edges    int
	SourceID int64
	SinkID   int64
}

// SolveInfo результаты расчёта потока
type SolveInfo struct {
	Algorithm  string
	MaxFlow    int64
	Status     string
	Iterations int
	DurationMs float64
}

// EdgeFlowRow поток по ребру
type EdgeFlowRow struct {
	From        int64
	To          int64
	FromName    string
	ToName      string
	Flow        int64
	Capacity    int64
	Unlimited   bool
	Utilization float64
}

// AttributionRow строка таблицы атрибуции терминал → магазин
type AttributionRow struct {
	Terminal string
	Shop     string
	Amount   int64
}

// AttributionInfo атрибуция потока по терминалам
type AttributionInfo struct {
	Rows           []AttributionRow
	TerminalTotals []TerminalTotal
	Unattributed   int64
	BestTerminal   string
}

// TerminalTotal суммарный поток терминала
type TerminalTotal struct {
	Terminal string
	Total    int64
}

// BottleneckRow узкое место
type BottleneckRow struct {
	From        int64
	To          int64
	Utilization float64
	ImpactScore float64
	Severity    string
}

// RecommendationRow рекомендация
type RecommendationRow struct {
	Type                 string
	Description          string
	EstimatedImprovement float64
	AdditionalCapacity   int64
}

// EfficiencyInfo метрики эффективности сети
type EfficiencyInfo struct {
	OverallEfficiency   float64
	CapacityUtilization float64
	UnusedEdges         int32
	SaturatedEdges      int32
	Grade               string
}

// ReportData агрегат данных для генерации отчёта
type ReportData struct {
	Title       string
	GeneratedAt time.Time

	Network         *NetworkInfo
	Solve           *SolveInfo
	EdgeFlows       []*EdgeFlowRow
	Attribution     *AttributionInfo
	Bottlenecks     []*BottleneckRow
	Recommendations []*RecommendationRow
	Efficiency      *EfficiencyInfo
}

// BuildReportData собирает данные отчёта из результатов расчёта,
// атрибуции и анализа. Любой из аргументов кроме графа может быть nil.
func BuildReportData(
	g *domain.Graph,
	result *solver.Result,
	table *analysis.AttributionTable,
	summary *analysis.Summary,
) *ReportData {
	data := &ReportData{
		Title:       "Network Flow Report",
		GeneratedAt: time.Now(),
		Network: &NetworkInfo{
			Name:     g.Name,
			Nodes:    g.NodeCount(),
			Edges:    g.EdgeCount(),
			SourceID: g.SourceID,
			SinkID:   g.SinkID,
		},
	}

	if result != nil {
		data.Solve = &SolveInfo{
			Algorithm:  "edmonds_karp",
			MaxFlow:    result.MaxFlow,
			Status:     result.Status.String(),
			Iterations: result.Iterations,
			DurationMs: float64(result.Duration.Microseconds()) / 1000,
		}
		data.EdgeFlows = convertEdgeFlows(g, result.Flow)
	}

	if table != nil {
		data.Attribution = convertAttribution(table)
	}

	if summary != nil {
		data.Bottlenecks = convertBottlenecks(summary.Bottlenecks)
		data.Recommendations = convertRecommendations(summary.Recommendations)
		if summary.Efficiency != nil {
			data.Efficiency = &EfficiencyInfo{
				OverallEfficiency:   summary.Efficiency.OverallEfficiency,
				CapacityUtilization: summary.Efficiency.CapacityUtilization,
				UnusedEdges:         summary.Efficiency.UnusedEdgesCount,
				SaturatedEdges:      summary.Efficiency.SaturatedEdgesCount,
				Grade:               string(summary.Efficiency.Grade),
			}
		}
	}

	return data
}

func convertEdgeFlows(g *domain.Graph, flow domain.FlowMap) []*EdgeFlowRow {
	keys := flow.PositiveEdges()
	rows := make([]*EdgeFlowRow, 0, len(keys))

	for _, key := range keys {
		row := &EdgeFlowRow{
			From:     key.From,
			To:       key.To,
			FromName: displayName(g, key.From),
			ToName:   displayName(g, key.To),
			Flow:     flow.Flow(key.From, key.To),
		}
		if edge, ok := g.GetEdge(key.From, key.To); ok {
			row.Capacity = edge.Capacity
			row.Unlimited = domain.IsUnlimited(edge.Capacity)
			if !row.Unlimited && edge.Capacity > 0 {
				row.Utilization = float64(row.Flow) / float64(edge.Capacity)
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func convertAttribution(table *analysis.AttributionTable) *AttributionInfo {
	info := &AttributionInfo{
		Unattributed: table.TotalUnattributed(),
	}

	for _, row := range table.Rows {
		info.Rows = append(info.Rows, AttributionRow{
			Terminal: row.TerminalName,
			Shop:     row.ShopName,
			Amount:   row.Amount,
		})
	}

	terminalNames := make(map[int64]string, len(table.Rows))
	for _, row := range table.Rows {
		terminalNames[row.TerminalID] = row.TerminalName
	}

	ids := make([]int64, 0, len(table.TerminalTotals))
	for id := range table.TerminalTotals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		info.TerminalTotals = append(info.TerminalTotals, TerminalTotal{
			Terminal: terminalNames[id],
			Total:    table.TerminalTotals[id],
		})
	}

	if bestID, _ := table.BestTerminal(); bestID != 0 {
		info.BestTerminal = terminalNames[bestID]
	}

	return info
}

func convertBottlenecks(bottlenecks []*domain.BottleneckInfo) []*BottleneckRow {
	rows := make([]*BottleneckRow, 0, len(bottlenecks))
	for _, b := range bottlenecks {
		rows = append(rows, &BottleneckRow{
			From:        b.Edge.From,
			To:          b.Edge.To,
			Utilization: b.Utilization,
			ImpactScore: b.ImpactScore,
			Severity:    b.Severity.String(),
		})
	}
	return rows
}

func convertRecommendations(recs []analysis.Recommendation) []*RecommendationRow {
	rows := make([]*RecommendationRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, &RecommendationRow{
			Type:                 r.Type,
			Description:          r.Description,
			EstimatedImprovement: r.EstimatedImprovement,
			AdditionalCapacity:   r.AdditionalCapacity,
		})
	}
	return rows
}

func displayName(g *domain.Graph, id int64) string {
	if node, ok := g.GetNode(id); ok && node.Name != "" {
		return node.Name
	}
	return ""
}
