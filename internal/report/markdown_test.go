package report

import (
	"context"
	"strings"
	"testing"
)

func TestNewMarkdownGenerator(t *testing.T) {
	g := NewMarkdownGenerator(DefaultOptions())
	if g == nil {
		t.Fatal("NewMarkdownGenerator should not return nil")
	}
}

func TestMarkdownGenerator_Format(t *testing.T) {
	g := NewMarkdownGenerator(DefaultOptions())
	if g.Format() != FormatMarkdown {
		t.Errorf("Format() = %v, want markdown", g.Format())
	}
}

func TestMarkdownGenerator_Generate(t *testing.T) {
	g := NewMarkdownGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), sampleReportData())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	md := string(result)

	// Проверяем структуру Markdown
	if !strings.Contains(md, "# Test Flow Report") {
		t.Error("Should contain title")
	}
	if !strings.Contains(md, "## Network Information") {
		t.Error("Should contain network section")
	}
	if !strings.Contains(md, "## Flow Results") {
		t.Error("Should contain flow results section")
	}
	if !strings.Contains(md, "**Maximum Flow:** 25") {
		t.Error("Should contain max flow")
	}
	if !strings.Contains(md, "| From | To | Flow | Capacity | Utilization |") {
		t.Error("Should contain edge table header")
	}
	if !strings.Contains(md, "unlimited") {
		t.Error("Should render unlimited capacity")
	}
	if !strings.Contains(md, "## Flow Attribution") {
		t.Error("Should contain attribution section")
	}
	if !strings.Contains(md, "Terminal with the highest flow: **Terminal 1**") {
		t.Error("Should name the best terminal")
	}
	if !strings.Contains(md, "## Bottlenecks") {
		t.Error("Should contain bottlenecks section")
	}
	if !strings.Contains(md, "## Recommendations") {
		t.Error("Should contain recommendations section")
	}
	if !strings.Contains(md, "**Grade:** B") {
		t.Error("Should contain efficiency grade")
	}
}

func TestMarkdownGenerator_Generate_EdgeLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxEdgesInTable = 2

	g := NewMarkdownGenerator(opts)
	data := sampleReportData()

	result, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.Contains(string(result), "and 1 more edges") {
		t.Error("Should truncate the edge table at the configured limit")
	}
}

func TestMarkdownGenerator_Generate_Minimal(t *testing.T) {
	g := NewMarkdownGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), &ReportData{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	md := string(result)
	if !strings.Contains(md, "# Network Flow Report") {
		t.Error("Should fall back to default title")
	}
	if strings.Contains(md, "## Flow Attribution") {
		t.Error("Should skip attribution section without data")
	}
}
