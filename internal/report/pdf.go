package report

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator(opts Options) *PDFGenerator {
	return &PDFGenerator{BaseGenerator{opts: opts}}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() Format {
	return FormatPDF
}

// Стили
var (
	// Цвета
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}  // #3498db
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	successColor   = &props.Color{Red: 39, Green: 174, Blue: 96}   // #27ae60
	warningColor   = &props.Color{Red: 243, Green: 156, Blue: 18}  // #f39c12
	dangerColor    = &props.Color{Red: 231, Green: 76, Blue: 60}   // #e74c3c
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141} // #7f8c8d

	// Стили текста
	titleStyle = props.Text{
		Size:  24,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	h2Style = props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   5,
	}

	normalStyle = props.Text{
		Size: 10,
	}

	boldStyle = props.Text{
		Size:  10,
		Style: fontstyle.Bold,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	metricValueStyle = props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryColor,
	}

	metricLabelStyle = props.Text{
		Size:  9,
		Align: align.Center,
		Color: darkGrayColor,
	}

	tableHeaderStyle = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderTextStyle = props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Center,
	}

	tableCellStyle = &props.Cell{
		BorderType:  border.Bottom,
		BorderColor: lightGrayColor,
	}

	tableCellTextStyle = props.Text{
		Size:  9,
		Align: align.Center,
	}
)

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	builder := marotocfg.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15)

	if g.opts.EnablePageNumbers {
		builder = builder.WithPageNumber()
	}

	if g.opts.PageSize == "Letter" {
		builder = builder.WithPageSize(pagesize.Letter)
	} else {
		builder = builder.WithPageSize(pagesize.A4)
	}

	if g.opts.Orientation == "landscape" {
		builder = builder.WithOrientation(orientation.Horizontal)
	}

	m := maroto.New(builder.Build())

	g.addHeader(m, data)
	g.addNetworkSection(m, data)
	g.addSolveSection(m, data)
	g.addAttributionSection(m, data)
	g.addBottlenecksSection(m, data)
	g.addEfficiencySection(m, data)
	g.addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, data *ReportData) {
	m.AddRow(15,
		text.NewCol(12, g.GetTitle(data), titleStyle),
	)

	m.AddRow(5,
		line.NewCol(12),
	)

	// Метаданные
	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Author: %s", g.GetAuthor()), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", g.FormatTimestamp(g.GeneratedAt(data))),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)

	m.AddRow(8) // Отступ
}

func (g *PDFGenerator) addNetworkSection(m core.Maroto, data *ReportData) {
	if data.Network == nil {
		return
	}

	g.addSection(m, "Network Information")
	g.addMetricCards(m, []metricCard{
		{Label: "Nodes", Value: fmt.Sprintf("%d", data.Network.Nodes)},
		{Label: "Edges", Value: fmt.Sprintf("%d", data.Network.Edges)},
		{Label: "Source", Value: fmt.Sprintf("%d", data.Network.SourceID)},
		{Label: "Sink", Value: fmt.Sprintf("%d", data.Network.SinkID)},
	})
}

func (g *PDFGenerator) addSolveSection(m core.Maroto, data *ReportData) {
	if data.Solve == nil {
		return
	}

	g.addSection(m, "Flow Results")

	g.addMetricCards(m, []metricCard{
		{Label: "Maximum Flow", Value: fmt.Sprintf("%d", data.Solve.MaxFlow), Highlight: true},
	})

	m.AddRow(5)
	g.addMetricCards(m, []metricCard{
		{Label: "Status", Value: data.Solve.Status},
		{Label: "Iterations", Value: fmt.Sprintf("%d", data.Solve.Iterations)},
		{Label: "Computation Time", Value: g.FormatDuration(data.Solve.DurationMs)},
	})

	if len(data.EdgeFlows) > 0 {
		g.addSection(m, "Edge Flows")
		g.addEdgeFlowsTable(m, data.EdgeFlows)
	}
}

func (g *PDFGenerator) addAttributionSection(m core.Maroto, data *ReportData) {
	if data.Attribution == nil {
		return
	}

	attr := data.Attribution

	g.addSection(m, "Flow Attribution")

	m.AddRow(8,
		text.NewCol(4, "Terminal", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Shop", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Flow", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)
	for _, row := range attr.Rows {
		m.AddRow(6,
			text.NewCol(4, row.Terminal, tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, row.Shop, tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, fmt.Sprintf("%d", row.Amount), tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}

	m.AddRow(5)
	for _, total := range attr.TerminalTotals {
		m.AddRow(6,
			text.NewCol(6, total.Terminal, boldStyle),
			text.NewCol(6, fmt.Sprintf("%d", total.Total), normalStyle),
		)
	}

	if attr.BestTerminal != "" {
		m.AddRow(6,
			text.NewCol(12, fmt.Sprintf("Terminal with the highest flow: %s", attr.BestTerminal), boldStyle),
		)
	}
	if attr.Unattributed > 0 {
		m.AddRow(6,
			text.NewCol(12, fmt.Sprintf("Unattributed flow: %d", attr.Unattributed),
				props.Text{Size: 10, Style: fontstyle.Bold, Color: dangerColor}),
		)
	}
}

func (g *PDFGenerator) addBottlenecksSection(m core.Maroto, data *ReportData) {
	if len(data.Bottlenecks) == 0 {
		return
	}

	g.addSection(m, "Bottlenecks")
	g.addBottlenecksTable(m, data.Bottlenecks)

	if len(data.Recommendations) > 0 {
		g.addSection(m, "Recommendations")
		for i, rec := range data.Recommendations {
			g.addRecommendation(m, i+1, rec)
		}
	}
}

func (g *PDFGenerator) addEfficiencySection(m core.Maroto, data *ReportData) {
	if data.Efficiency == nil {
		return
	}

	g.addSection(m, "Efficiency Metrics")
	g.addMetricCards(m, []metricCard{
		{Label: "Overall Efficiency", Value: g.FormatPercent(data.Efficiency.OverallEfficiency), Highlight: true},
		{Label: "Grade", Value: data.Efficiency.Grade, Highlight: true},
	})

	m.AddRow(5)
	g.addKeyValueTable(m, []keyValue{
		{"Capacity Utilization", g.FormatPercent(data.Efficiency.CapacityUtilization)},
		{"Unused Edges", fmt.Sprintf("%d", data.Efficiency.UnusedEdges)},
		{"Saturated Edges", fmt.Sprintf("%d", data.Efficiency.SaturatedEdges)},
	})
}

type metricCard struct {
	Label     string
	Value     string
	Highlight bool
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}

	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}

	var cols []core.Col
	for _, card := range cards {
		valueStyle := metricValueStyle
		if !card.Highlight {
			valueStyle.Size = 14
		}

		cols = append(cols,
			col.New(colSize).Add(
				text.New(card.Value, valueStyle),
				text.New(card.Label, metricLabelStyle),
			),
		)
	}

	m.AddRow(20, cols...)
}

type keyValue struct {
	Key   string
	Value string
}

func (g *PDFGenerator) addKeyValueTable(m core.Maroto, items []keyValue) {
	for _, item := range items {
		m.AddRow(6,
			text.NewCol(6, item.Key, boldStyle),
			text.NewCol(6, item.Value, normalStyle),
		)
	}
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(10,
		text.NewCol(12, title, h2Style),
	)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: primaryColor}),
	)
	m.AddRow(5)
}

func (g *PDFGenerator) addEdgeFlowsTable(m core.Maroto, edges []*EdgeFlowRow) {
	// Заголовок
	m.AddRow(8,
		text.NewCol(3, "From", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "To", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Flow", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Capacity", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Utilization", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)

	// Данные (ограничиваем количество для PDF)
	maxRows := g.MaxEdges()
	count := 0
	for _, edge := range edges {
		if count >= maxRows {
			m.AddRow(6,
				text.NewCol(12, fmt.Sprintf("... and %d more rows", len(edges)-maxRows), smallStyle),
			)
			break
		}

		m.AddRow(6,
			text.NewCol(3, g.EdgeLabel(edge.FromName, edge.From), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, g.EdgeLabel(edge.ToName, edge.To), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", edge.Flow), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatCapacity(edge.Capacity, edge.Unlimited), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatPercent(edge.Utilization), tableCellTextStyle).WithStyle(tableCellStyle),
		)
		count++
	}
}

func (g *PDFGenerator) addBottlenecksTable(m core.Maroto, bottlenecks []*BottleneckRow) {
	// Заголовок
	m.AddRow(8,
		text.NewCol(2, "From", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "To", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "Utilization", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "Impact", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Severity", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)

	for _, bn := range bottlenecks {
		severityStyle := tableCellTextStyle
		switch bn.Severity {
		case "critical", "high":
			severityStyle.Color = dangerColor
		case "medium":
			severityStyle.Color = warningColor
		case "low":
			severityStyle.Color = successColor
		}

		m.AddRow(6,
			text.NewCol(2, fmt.Sprintf("%d", bn.From), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", bn.To), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, g.FormatPercent(bn.Utilization), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, fmt.Sprintf("%.2f", bn.ImpactScore), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, bn.Severity, severityStyle).WithStyle(tableCellStyle),
		)
	}
}

func (g *PDFGenerator) addRecommendation(m core.Maroto, num int, rec *RecommendationRow) {
	m.AddRow(8,
		text.NewCol(12, fmt.Sprintf("%d. %s", num, rec.Type), boldStyle),
	)

	m.AddRow(6,
		text.NewCol(12, rec.Description, normalStyle),
	)

	if rec.AdditionalCapacity > 0 {
		m.AddRow(6,
			text.NewCol(12, fmt.Sprintf("Suggested capacity increase: %d", rec.AdditionalCapacity), smallStyle),
		)
	}
}

func (g *PDFGenerator) addFooter(m core.Maroto, data *ReportData) {
	m.AddRow(10)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: lightGrayColor}),
	)
	m.AddRow(6,
		text.NewCol(12,
			fmt.Sprintf("Generated by %s | %s", g.GetAuthor(), g.FormatTimestamp(g.GeneratedAt(data))),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Center},
		),
	)
}
