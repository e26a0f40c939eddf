package report

import (
	"context"
	"encoding/json"
)

// JSONGenerator генератор JSON отчётов
type JSONGenerator struct {
	BaseGenerator
}

// NewJSONGenerator создаёт новый генератор
func NewJSONGenerator(opts Options) *JSONGenerator {
	return &JSONGenerator{BaseGenerator{opts: opts}}
}

// Format возвращает формат генератора
func (g *JSONGenerator) Format() Format {
	return FormatJSON
}

// JSONReport структура JSON отчёта
type JSONReport struct {
	Metadata    JSONMetadata     `json:"metadata"`
	Network     *JSONNetwork     `json:"network,omitempty"`
	FlowResult  *JSONFlowResult  `json:"flowResult,omitempty"`
	Attribution *JSONAttribution `json:"attribution,omitempty"`
	Bottlenecks []*JSONBottleneck `json:"bottlenecks,omitempty"`
	Efficiency  *JSONEfficiency  `json:"efficiency,omitempty"`
}

type JSONMetadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	GeneratedAt string `json:"generatedAt"`
}

type JSONNetwork struct {
	Name      string `json:"name,omitempty"`
	NodeCount int    `json:"nodeCount"`
	EdgeCount int    `json:"edgeCount"`
	SourceID  int64  `json:"sourceId"`
	SinkID    int64  `json:"sinkId"`
}

type JSONFlowResult struct {
	MaxFlow           int64           `json:"maxFlow"`
	Algorithm         string          `json:"algorithm"`
	Status            string          `json:"status"`
	Iterations        int             `json:"iterations"`
	ComputationTimeMs float64         `json:"computationTimeMs"`
	Edges             []*JSONFlowEdge `json:"edges,omitempty"`
}

type JSONFlowEdge struct {
	From        int64   `json:"from"`
	To          int64   `json:"to"`
	FromName    string  `json:"fromName,omitempty"`
	ToName      string  `json:"toName,omitempty"`
	Flow        int64   `json:"flow"`
	Capacity    int64   `json:"capacity"`
	Unlimited   bool    `json:"unlimited,omitempty"`
	Utilization float64 `json:"utilization"`
}

type JSONAttribution struct {
	Rows           []JSONAttributionRow `json:"rows"`
	TerminalTotals map[string]int64     `json:"terminalTotals"`
	Unattributed   int64                `json:"unattributed"`
	BestTerminal   string               `json:"bestTerminal,omitempty"`
}

type JSONAttributionRow struct {
	Terminal string `json:"terminal"`
	Shop     string `json:"shop"`
	Amount   int64  `json:"amount"`
}

type JSONBottleneck struct {
	From        int64   `json:"from"`
	To          int64   `json:"to"`
	Utilization float64 `json:"utilization"`
	ImpactScore float64 `json:"impactScore"`
	Severity    string  `json:"severity"`
}

type JSONEfficiency struct {
	OverallEfficiency   float64 `json:"overallEfficiency"`
	CapacityUtilization float64 `json:"capacityUtilization"`
	UnusedEdges         int32   `json:"unusedEdges"`
	SaturatedEdges      int32   `json:"saturatedEdges"`
	Grade               string  `json:"grade"`
}

// Generate генерирует JSON отчёт
func (g *JSONGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	report := JSONReport{
		Metadata: JSONMetadata{
			Title:       g.GetTitle(data),
			Author:      g.GetAuthor(),
			GeneratedAt: g.FormatTimestamp(g.GeneratedAt(data)),
		},
	}

	if data.Network != nil {
		report.Network = &JSONNetwork{
			Name:      data.Network.Name,
			NodeCount: data.Network.Nodes,
			EdgeCount: data.Network.Edges,
			SourceID:  data.Network.SourceID,
			SinkID:    data.Network.SinkID,
		}
	}

	if data.Solve != nil {
		result := &JSONFlowResult{
			MaxFlow:           data.Solve.MaxFlow,
			Algorithm:         data.Solve.Algorithm,
			Status:            data.Solve.Status,
			Iterations:        data.Solve.Iterations,
			ComputationTimeMs: data.Solve.DurationMs,
		}
		for _, edge := range data.EdgeFlows {
			result.Edges = append(result.Edges, &JSONFlowEdge{
				From:        edge.From,
				To:          edge.To,
				FromName:    edge.FromName,
				ToName:      edge.ToName,
				Flow:        edge.Flow,
				Capacity:    edge.Capacity,
				Unlimited:   edge.Unlimited,
				Utilization: edge.Utilization,
			})
		}
		report.FlowResult = result
	}

	if data.Attribution != nil {
		attr := &JSONAttribution{
			TerminalTotals: make(map[string]int64, len(data.Attribution.TerminalTotals)),
			Unattributed:   data.Attribution.Unattributed,
			BestTerminal:   data.Attribution.BestTerminal,
		}
		for _, row := range data.Attribution.Rows {
			attr.Rows = append(attr.Rows, JSONAttributionRow{
				Terminal: row.Terminal,
				Shop:     row.Shop,
				Amount:   row.Amount,
			})
		}
		for _, total := range data.Attribution.TerminalTotals {
			attr.TerminalTotals[total.Terminal] = total.Total
		}
		report.Attribution = attr
	}

	for _, bn := range data.Bottlenecks {
		report.Bottlenecks = append(report.Bottlenecks, &JSONBottleneck{
			From:        bn.From,
			To:          bn.To,
			Utilization: bn.Utilization,
			ImpactScore: bn.ImpactScore,
			Severity:    bn.Severity,
		})
	}

	if data.Efficiency != nil {
		report.Efficiency = &JSONEfficiency{
			OverallEfficiency:   data.Efficiency.OverallEfficiency,
			CapacityUtilization: data.Efficiency.CapacityUtilization,
			UnusedEdges:         data.Efficiency.UnusedEdges,
			SaturatedEdges:      data.Efficiency.SaturatedEdges,
			Grade:               data.Efficiency.Grade,
		}
	}

	return json.MarshalIndent(report, "", "  ")
}
