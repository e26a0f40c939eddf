package report

import (
	"bytes"
	"context"
	"fmt"
)

// MarkdownGenerator генератор Markdown отчётов
type MarkdownGenerator struct {
	BaseGenerator
}

// NewMarkdownGenerator создаёт новый генератор
func NewMarkdownGenerator(opts Options) *MarkdownGenerator {
	return &MarkdownGenerator{BaseGenerator{opts: opts}}
}

// Format возвращает формат генератора
func (g *MarkdownGenerator) Format() Format {
	return FormatMarkdown
}

// Generate генерирует Markdown отчёт
func (g *MarkdownGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	var buf bytes.Buffer

	g.writeHeader(&buf, data)
	g.writeNetwork(&buf, data)
	g.writeSolve(&buf, data)
	g.writeAttribution(&buf, data)
	g.writeBottlenecks(&buf, data)
	g.writeEfficiency(&buf, data)
	g.writeFooter(&buf, data)

	return buf.Bytes(), nil
}

func (g *MarkdownGenerator) writeHeader(buf *bytes.Buffer, data *ReportData) {
	buf.WriteString(fmt.Sprintf("# %s\n\n", g.GetTitle(data)))
	buf.WriteString("## Report Information\n\n")
	buf.WriteString(fmt.Sprintf("- **Generated:** %s\n", g.FormatTimestamp(g.GeneratedAt(data))))
	buf.WriteString(fmt.Sprintf("- **Author:** %s\n", g.GetAuthor()))
	buf.WriteString("\n---\n\n")
}

func (g *MarkdownGenerator) writeNetwork(buf *bytes.Buffer, data *ReportData) {
	if data.Network == nil {
		return
	}

	buf.WriteString("## Network Information\n\n")
	if data.Network.Name != "" {
		buf.WriteString(fmt.Sprintf("- **Network:** %s\n", data.Network.Name))
	}
	buf.WriteString(fmt.Sprintf("- **Nodes:** %d\n", data.Network.Nodes))
	buf.WriteString(fmt.Sprintf("- **Edges:** %d\n", data.Network.Edges))
	buf.WriteString(fmt.Sprintf("- **Source:** %d\n", data.Network.SourceID))
	buf.WriteString(fmt.Sprintf("- **Sink:** %d\n", data.Network.SinkID))
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeSolve(buf *bytes.Buffer, data *ReportData) {
	if data.Solve == nil {
		return
	}

	buf.WriteString("## Flow Results\n\n")
	buf.WriteString(fmt.Sprintf("- **Maximum Flow:** %d\n", data.Solve.MaxFlow))
	buf.WriteString(fmt.Sprintf("- **Algorithm:** %s\n", data.Solve.Algorithm))
	buf.WriteString(fmt.Sprintf("- **Status:** %s\n", data.Solve.Status))
	buf.WriteString(fmt.Sprintf("- **Iterations:** %d\n", data.Solve.Iterations))
	buf.WriteString(fmt.Sprintf("- **Computation Time:** %s\n", g.FormatDuration(data.Solve.DurationMs)))
	buf.WriteString("\n")

	if len(data.EdgeFlows) == 0 {
		return
	}

	buf.WriteString("### Edge Flows\n\n")
	buf.WriteString("| From | To | Flow | Capacity | Utilization |\n")
	buf.WriteString("|------|-----|------|----------|-------------|\n")

	limit := g.MaxEdges()
	for i, edge := range data.EdgeFlows {
		if i >= limit {
			buf.WriteString(fmt.Sprintf("\n*... and %d more edges*\n", len(data.EdgeFlows)-limit))
			break
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n",
			g.EdgeLabel(edge.FromName, edge.From),
			g.EdgeLabel(edge.ToName, edge.To),
			edge.Flow,
			g.FormatCapacity(edge.Capacity, edge.Unlimited),
			g.FormatPercent(edge.Utilization)))
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeAttribution(buf *bytes.Buffer, data *ReportData) {
	if data.Attribution == nil {
		return
	}

	attr := data.Attribution

	buf.WriteString("## Flow Attribution\n\n")
	buf.WriteString("| Terminal | Shop | Flow |\n")
	buf.WriteString("|----------|------|------|\n")
	for _, row := range attr.Rows {
		buf.WriteString(fmt.Sprintf("| %s | %s | %d |\n", row.Terminal, row.Shop, row.Amount))
	}
	buf.WriteString("\n")

	buf.WriteString("### Terminal Totals\n\n")
	buf.WriteString("| Terminal | Total |\n")
	buf.WriteString("|----------|-------|\n")
	for _, total := range attr.TerminalTotals {
		buf.WriteString(fmt.Sprintf("| %s | %d |\n", total.Terminal, total.Total))
	}
	buf.WriteString("\n")

	if attr.BestTerminal != "" {
		buf.WriteString(fmt.Sprintf("Terminal with the highest flow: **%s**\n\n", attr.BestTerminal))
	}
	if attr.Unattributed > 0 {
		buf.WriteString(fmt.Sprintf("Unattributed flow: **%d**\n\n", attr.Unattributed))
	}
}

func (g *MarkdownGenerator) writeBottlenecks(buf *bytes.Buffer, data *ReportData) {
	if len(data.Bottlenecks) == 0 {
		return
	}

	buf.WriteString("## Bottlenecks\n\n")
	buf.WriteString("| From → To | Utilization | Impact | Severity |\n")
	buf.WriteString("|-----------|-------------|--------|----------|\n")
	for _, bn := range data.Bottlenecks {
		buf.WriteString(fmt.Sprintf("| %d → %d | %s | %.2f | %s |\n",
			bn.From, bn.To, g.FormatPercent(bn.Utilization), bn.ImpactScore, bn.Severity))
	}
	buf.WriteString("\n")

	if len(data.Recommendations) > 0 {
		buf.WriteString("## Recommendations\n\n")
		for i, rec := range data.Recommendations {
			buf.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, rec.Type))
			buf.WriteString(fmt.Sprintf("%s\n\n", rec.Description))
			if rec.AdditionalCapacity > 0 {
				buf.WriteString(fmt.Sprintf("- Suggested capacity increase: **%d**\n", rec.AdditionalCapacity))
			}
			if rec.EstimatedImprovement > 0 {
				buf.WriteString(fmt.Sprintf("- Expected improvement: **%.1f%%**\n", rec.EstimatedImprovement))
			}
			buf.WriteString("\n")
		}
	}
}

func (g *MarkdownGenerator) writeEfficiency(buf *bytes.Buffer, data *ReportData) {
	if data.Efficiency == nil {
		return
	}

	buf.WriteString("## Efficiency Metrics\n\n")
	buf.WriteString(fmt.Sprintf("- **Overall Efficiency:** %s\n", g.FormatPercent(data.Efficiency.OverallEfficiency)))
	buf.WriteString(fmt.Sprintf("- **Capacity Utilization:** %s\n", g.FormatPercent(data.Efficiency.CapacityUtilization)))
	buf.WriteString(fmt.Sprintf("- **Unused Edges:** %d\n", data.Efficiency.UnusedEdges))
	buf.WriteString(fmt.Sprintf("- **Saturated Edges:** %d\n", data.Efficiency.SaturatedEdges))
	buf.WriteString(fmt.Sprintf("- **Grade:** %s\n", data.Efficiency.Grade))
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeFooter(buf *bytes.Buffer, data *ReportData) {
	buf.WriteString("\n---\n\n")
	buf.WriteString(fmt.Sprintf("*Report generated automatically by %s*\n", g.GetAuthor()))
	buf.WriteString(fmt.Sprintf("*%s*\n", g.FormatTimestamp(g.GeneratedAt(data))))
}
