package report

import (
	"bytes"
	"context"
	"testing"
)

func TestPDFGenerator_Format(t *testing.T) {
	g := NewPDFGenerator(DefaultOptions())
	if g.Format() != FormatPDF {
		t.Errorf("Format() = %v, want pdf", g.Format())
	}
}

func TestPDFGenerator_Generate(t *testing.T) {
	g := NewPDFGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), sampleReportData())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("result should not be empty")
	}

	// Сигнатура PDF файла
	if !bytes.HasPrefix(result, []byte("%PDF")) {
		t.Error("result should start with PDF signature")
	}
}

func TestPDFGenerator_Generate_Landscape(t *testing.T) {
	opts := DefaultOptions()
	opts.Orientation = "landscape"
	opts.PageSize = "Letter"
	opts.EnablePageNumbers = false

	g := NewPDFGenerator(opts)

	result, err := g.Generate(context.Background(), sampleReportData())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !bytes.HasPrefix(result, []byte("%PDF")) {
		t.Error("result should start with PDF signature")
	}
}

func TestPDFGenerator_Generate_Minimal(t *testing.T) {
	g := NewPDFGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), &ReportData{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("result should not be empty")
	}
}
