package report

import (
	"context"
	"encoding/json"
	"testing"
)

func TestJSONGenerator_Format(t *testing.T) {
	g := NewJSONGenerator(DefaultOptions())
	if g.Format() != FormatJSON {
		t.Errorf("Format() = %v, want json", g.Format())
	}
}

func TestJSONGenerator_Generate(t *testing.T) {
	g := NewJSONGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), sampleReportData())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var report JSONReport
	if err := json.Unmarshal(result, &report); err != nil {
		t.Fatalf("report should be valid JSON: %v", err)
	}

	if report.Metadata.Title != "Test Flow Report" {
		t.Errorf("title = %s", report.Metadata.Title)
	}
	if report.Network == nil || report.Network.NodeCount != 4 {
		t.Error("network section missing or wrong node count")
	}
	if report.FlowResult == nil {
		t.Fatal("flow result section missing")
	}
	if report.FlowResult.MaxFlow != 25 {
		t.Errorf("maxFlow = %d, want 25", report.FlowResult.MaxFlow)
	}
	if len(report.FlowResult.Edges) != 3 {
		t.Errorf("edges = %d, want 3", len(report.FlowResult.Edges))
	}
	if report.Attribution == nil {
		t.Fatal("attribution section missing")
	}
	if report.Attribution.TerminalTotals["Terminal 1"] != 25 {
		t.Errorf("terminal total = %d, want 25", report.Attribution.TerminalTotals["Terminal 1"])
	}
	if report.Attribution.BestTerminal != "Terminal 1" {
		t.Errorf("bestTerminal = %s", report.Attribution.BestTerminal)
	}
	if len(report.Bottlenecks) != 1 {
		t.Errorf("bottlenecks = %d, want 1", len(report.Bottlenecks))
	}
	if report.Efficiency == nil || report.Efficiency.Grade != "B" {
		t.Error("efficiency section missing or wrong grade")
	}
}

func TestJSONGenerator_Generate_Minimal(t *testing.T) {
	g := NewJSONGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), &ReportData{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var report JSONReport
	if err := json.Unmarshal(result, &report); err != nil {
		t.Fatalf("report should be valid JSON: %v", err)
	}

	if report.Network != nil {
		t.Error("network section should be omitted")
	}
	if report.FlowResult != nil {
		t.Error("flow result section should be omitted")
	}
}
