package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelGenerator генератор Excel отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator(opts Options) *ExcelGenerator {
	return &ExcelGenerator{BaseGenerator{opts: opts}}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() Format {
	return FormatExcel
}

// Generate генерирует Excel отчёт
func (g *ExcelGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	g.writeResultsSheet(f, data, headerStyle)
	g.writeAttributionSheet(f, data, headerStyle)
	g.writeBottlenecksSheet(f, data, headerStyle)

	// Удаляем дефолтный лист
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeResultsSheet(f *excelize.File, data *ReportData, headerStyle int) {
	sheetName := "Flow Results"
	f.NewSheet(sheetName)

	row := 1

	f.SetCellValue(sheetName, cellAddr("A", row), g.GetTitle(data))
	f.MergeCell(sheetName, cellAddr("A", row), cellAddr("E", row))
	row += 2

	if data.Network != nil {
		f.SetCellValue(sheetName, cellAddr("A", row), "Network Information")
		f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
		row++

		pairs := [][2]any{
			{"Nodes", data.Network.Nodes},
			{"Edges", data.Network.Edges},
			{"Source", data.Network.SourceID},
			{"Sink", data.Network.SinkID},
		}
		for _, pair := range pairs {
			f.SetCellValue(sheetName, cellAddr("A", row), pair[0])
			f.SetCellValue(sheetName, cellAddr("B", row), pair[1])
			row++
		}
		row++
	}

	if data.Solve != nil {
		f.SetCellValue(sheetName, cellAddr("A", row), "Flow Results")
		f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
		row++

		pairs := [][2]any{
			{"Max Flow", data.Solve.MaxFlow},
			{"Algorithm", data.Solve.Algorithm},
			{"Status", data.Solve.Status},
			{"Iterations", data.Solve.Iterations},
			{"Computation Time (ms)", data.Solve.DurationMs},
		}
		for _, pair := range pairs {
			f.SetCellValue(sheetName, cellAddr("A", row), pair[0])
			f.SetCellValue(sheetName, cellAddr("B", row), pair[1])
			row++
		}
		row++
	}

	if len(data.EdgeFlows) > 0 {
		f.SetCellValue(sheetName, cellAddr("A", row), "Edge Flows")
		f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("E", row), headerStyle)
		row++

		headers := []string{"From", "To", "Flow", "Capacity", "Utilization"}
		for i, h := range headers {
			f.SetCellValue(sheetName, cellAddr(string(rune('A'+i)), row), h)
		}
		f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("E", row), headerStyle)
		row++

		for _, edge := range data.EdgeFlows {
			f.SetCellValue(sheetName, cellAddr("A", row), g.EdgeLabel(edge.FromName, edge.From))
			f.SetCellValue(sheetName, cellAddr("B", row), g.EdgeLabel(edge.ToName, edge.To))
			f.SetCellValue(sheetName, cellAddr("C", row), edge.Flow)
			f.SetCellValue(sheetName, cellAddr("D", row), g.FormatCapacity(edge.Capacity, edge.Unlimited))
			f.SetCellValue(sheetName, cellAddr("E", row), edge.Utilization)
			row++
		}
	}

	f.SetColWidth(sheetName, "A", "E", 18)
}

func (g *ExcelGenerator) writeAttributionSheet(f *excelize.File, data *ReportData, headerStyle int) {
	if data.Attribution == nil {
		return
	}

	sheetName := "Attribution"
	f.NewSheet(sheetName)

	headers := []string{"Terminal", "Shop", "Flow"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+i)), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", "C1", headerStyle)

	row := 2
	for _, r := range data.Attribution.Rows {
		f.SetCellValue(sheetName, cellAddr("A", row), r.Terminal)
		f.SetCellValue(sheetName, cellAddr("B", row), r.Shop)
		f.SetCellValue(sheetName, cellAddr("C", row), r.Amount)
		row++
	}
	row++

	f.SetCellValue(sheetName, cellAddr("A", row), "Terminal Totals")
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
	row++
	for _, total := range data.Attribution.TerminalTotals {
		f.SetCellValue(sheetName, cellAddr("A", row), total.Terminal)
		f.SetCellValue(sheetName, cellAddr("B", row), total.Total)
		row++
	}

	if data.Attribution.Unattributed > 0 {
		f.SetCellValue(sheetName, cellAddr("A", row), "Unattributed")
		f.SetCellValue(sheetName, cellAddr("B", row), data.Attribution.Unattributed)
	}

	f.SetColWidth(sheetName, "A", "C", 18)
}

func (g *ExcelGenerator) writeBottlenecksSheet(f *excelize.File, data *ReportData, headerStyle int) {
	if len(data.Bottlenecks) == 0 {
		return
	}

	sheetName := "Bottlenecks"
	f.NewSheet(sheetName)

	headers := []string{"From", "To", "Utilization", "Impact Score", "Severity"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+i)), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", "E1", headerStyle)

	row := 2
	for _, bn := range data.Bottlenecks {
		f.SetCellValue(sheetName, cellAddr("A", row), bn.From)
		f.SetCellValue(sheetName, cellAddr("B", row), bn.To)
		f.SetCellValue(sheetName, cellAddr("C", row), bn.Utilization)
		f.SetCellValue(sheetName, cellAddr("D", row), bn.ImpactScore)
		f.SetCellValue(sheetName, cellAddr("E", row), bn.Severity)
		row++
	}

	f.SetColWidth(sheetName, "A", "E", 15)
}

// cellAddr возвращает адрес ячейки
func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
