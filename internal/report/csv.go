package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

// CSVGenerator генератор CSV отчётов
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator(opts Options) *CSVGenerator {
	return &CSVGenerator{BaseGenerator{opts: opts}}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() Format {
	return FormatCSV
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

func (cw *csvWriter) Error() error {
	return cw.err
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{"# " + g.GetTitle(data)})
	cw.Write([]string{"Generated", g.FormatTimestamp(g.GeneratedAt(data))})
	cw.Write([]string{""})

	g.writeNetwork(cw, data)
	g.writeSolve(cw, data)
	g.writeAttribution(cw, data)
	g.writeBottlenecks(cw, data)
	g.writeEfficiency(cw, data)

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *CSVGenerator) writeNetwork(w *csvWriter, data *ReportData) {
	if data.Network == nil {
		return
	}

	w.Write([]string{"Network Info"})
	if data.Network.Name != "" {
		w.Write([]string{"Name", data.Network.Name})
	}
	w.Write([]string{"Nodes", fmt.Sprintf("%d", data.Network.Nodes)})
	w.Write([]string{"Edges", fmt.Sprintf("%d", data.Network.Edges)})
	w.Write([]string{"Source", fmt.Sprintf("%d", data.Network.SourceID)})
	w.Write([]string{"Sink", fmt.Sprintf("%d", data.Network.SinkID)})
	w.Write([]string{""})
}

func (g *CSVGenerator) writeSolve(w *csvWriter, data *ReportData) {
	if data.Solve == nil {
		return
	}

	w.Write([]string{"Flow Results"})
	w.Write([]string{"Max Flow", fmt.Sprintf("%d", data.Solve.MaxFlow)})
	w.Write([]string{"Algorithm", data.Solve.Algorithm})
	w.Write([]string{"Status", data.Solve.Status})
	w.Write([]string{"Iterations", fmt.Sprintf("%d", data.Solve.Iterations)})
	w.Write([]string{"Computation Time (ms)", fmt.Sprintf("%.2f", data.Solve.DurationMs)})
	w.Write([]string{""})

	if len(data.EdgeFlows) == 0 {
		return
	}

	w.Write([]string{"Edge Flows"})
	w.Write([]string{"From", "To", "Flow", "Capacity", "Utilization"})
	for _, edge := range data.EdgeFlows {
		w.Write([]string{
			g.EdgeLabel(edge.FromName, edge.From),
			g.EdgeLabel(edge.ToName, edge.To),
			fmt.Sprintf("%d", edge.Flow),
			g.FormatCapacity(edge.Capacity, edge.Unlimited),
			fmt.Sprintf("%.4f", edge.Utilization),
		})
	}
	w.Write([]string{""})
}

func (g *CSVGenerator) writeAttribution(w *csvWriter, data *ReportData) {
	if data.Attribution == nil {
		return
	}

	attr := data.Attribution

	w.Write([]string{"Flow Attribution"})
	w.Write([]string{"Terminal", "Shop", "Flow"})
	for _, row := range attr.Rows {
		w.Write([]string{row.Terminal, row.Shop, fmt.Sprintf("%d", row.Amount)})
	}
	w.Write([]string{""})

	w.Write([]string{"Terminal Totals"})
	w.Write([]string{"Terminal", "Total"})
	for _, total := range attr.TerminalTotals {
		w.Write([]string{total.Terminal, fmt.Sprintf("%d", total.Total)})
	}
	if attr.Unattributed > 0 {
		w.Write([]string{"Unattributed", fmt.Sprintf("%d", attr.Unattributed)})
	}
	w.Write([]string{""})
}

func (g *CSVGenerator) writeBottlenecks(w *csvWriter, data *ReportData) {
	if len(data.Bottlenecks) == 0 {
		return
	}

	w.Write([]string{"Bottlenecks"})
	w.Write([]string{"From", "To", "Utilization", "Impact Score", "Severity"})
	for _, bn := range data.Bottlenecks {
		w.Write([]string{
			fmt.Sprintf("%d", bn.From),
			fmt.Sprintf("%d", bn.To),
			fmt.Sprintf("%.4f", bn.Utilization),
			fmt.Sprintf("%.4f", bn.ImpactScore),
			bn.Severity,
		})
	}
	w.Write([]string{""})

	if len(data.Recommendations) > 0 {
		w.Write([]string{"Recommendations"})
		w.Write([]string{"Type", "Description", "Estimated Improvement", "Additional Capacity"})
		for _, rec := range data.Recommendations {
			w.Write([]string{
				rec.Type,
				rec.Description,
				fmt.Sprintf("%.2f", rec.EstimatedImprovement),
				fmt.Sprintf("%d", rec.AdditionalCapacity),
			})
		}
		w.Write([]string{""})
	}
}

func (g *CSVGenerator) writeEfficiency(w *csvWriter, data *ReportData) {
	if data.Efficiency == nil {
		return
	}

	w.Write([]string{"Efficiency Metrics"})
	w.Write([]string{"Metric", "Value"})
	w.Write([]string{"Overall Efficiency", fmt.Sprintf("%.4f", data.Efficiency.OverallEfficiency)})
	w.Write([]string{"Capacity Utilization", fmt.Sprintf("%.4f", data.Efficiency.CapacityUtilization)})
	w.Write([]string{"Unused Edges", fmt.Sprintf("%d", data.Efficiency.UnusedEdges)})
	w.Write([]string{"Saturated Edges", fmt.Sprintf("%d", data.Efficiency.SaturatedEdges)})
	w.Write([]string{"Grade", data.Efficiency.Grade})
}
