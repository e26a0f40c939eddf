package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExcelGenerator_Format(t *testing.T) {
	g := NewExcelGenerator(DefaultOptions())
	if g.Format() != FormatExcel {
		t.Errorf("Format() = %v, want excel", g.Format())
	}
}

func TestExcelGenerator_Generate(t *testing.T) {
	g := NewExcelGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), sampleReportData())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("result should not be empty")
	}

	// Файл должен открываться обратно
	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result should be a valid xlsx: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Flow Results": false, "Attribution": false, "Bottlenecks": false}
	for _, sheet := range sheets {
		if _, ok := want[sheet]; ok {
			want[sheet] = true
		}
	}
	for sheet, found := range want {
		if !found {
			t.Errorf("missing sheet %q, got %v", sheet, sheets)
		}
	}

	cell, err := f.GetCellValue("Attribution", "A2")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if cell != "Terminal 1" {
		t.Errorf("Attribution!A2 = %q, want Terminal 1", cell)
	}
}

func TestExcelGenerator_Generate_NoBottlenecks(t *testing.T) {
	g := NewExcelGenerator(DefaultOptions())
	data := sampleReportData()
	data.Bottlenecks = nil

	result, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result should be a valid xlsx: %v", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		if sheet == "Bottlenecks" {
			t.Error("Bottlenecks sheet should be skipped without data")
		}
	}
}
