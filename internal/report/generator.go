// Package report генерирует отчёты по результатам расчёта потока
// в форматах Markdown, CSV, JSON, Excel и PDF.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"netflow/pkg/apperror"
	"netflow/pkg/config"
)

// Format формат отчёта
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatExcel    Format = "excel"
	FormatPDF      Format = "pdf"
)

// Extension возвращает расширение файла для формата
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatExcel:
		return ".xlsx"
	case FormatPDF:
		return ".pdf"
	default:
		return ".txt"
	}
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, data *ReportData) ([]byte, error)
	Format() Format
}

// Options настройки генерации отчётов
type Options struct {
	CompanyName       string
	MaxEdgesInTable   int
	PageSize          string
	Orientation       string
	EnablePageNumbers bool
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		CompanyName:       "netflow",
		MaxEdgesInTable:   50,
		PageSize:          "A4",
		Orientation:       "portrait",
		EnablePageNumbers: true,
	}
}

// OptionsFromConfig собирает настройки из конфигурации приложения
func OptionsFromConfig(cfg config.ReportConfig) Options {
	opts := DefaultOptions()
	if cfg.CompanyName != "" {
		opts.CompanyName = cfg.CompanyName
	}
	if cfg.MaxEdgesInTable > 0 {
		opts.MaxEdgesInTable = cfg.MaxEdgesInTable
	}
	if cfg.PDF.PageSize != "" {
		opts.PageSize = cfg.PDF.PageSize
	}
	if cfg.PDF.Orientation != "" {
		opts.Orientation = cfg.PDF.Orientation
	}
	opts.EnablePageNumbers = cfg.PDF.EnablePageNumbers
	return opts
}

// ForFormat возвращает генератор для указанного формата
func ForFormat(format Format, opts Options) (Generator, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownGenerator(opts), nil
	case FormatCSV:
		return NewCSVGenerator(opts), nil
	case FormatJSON:
		return NewJSONGenerator(opts), nil
	case FormatExcel:
		return NewExcelGenerator(opts), nil
	case FormatPDF:
		return NewPDFGenerator(opts), nil
	default:
		return nil, apperror.New(apperror.CodeInvalidArgument,
			fmt.Sprintf("unknown report format: %s", format))
	}
}

// WriteFile генерирует отчёт и записывает его в каталог outputDir.
// Возвращает путь записанного файла.
func WriteFile(ctx context.Context, gen Generator, data *ReportData, outputDir, baseName string) (string, error) {
	content, err := gen.Generate(ctx, data)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeReportFailed, "report generation failed")
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperror.Wrap(err, apperror.CodeReportFailed, "cannot create output directory")
	}

	path := filepath.Join(outputDir, baseName+gen.Format().Extension())
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", apperror.Wrap(err, apperror.CodeReportFailed, "cannot write report file")
	}

	return path, nil
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct {
	opts Options
}

// GetTitle возвращает заголовок отчёта
func (b *BaseGenerator) GetTitle(data *ReportData) string {
	if data.Title != "" {
		return data.Title
	}
	return "Network Flow Report"
}

// GetAuthor возвращает автора отчёта
func (b *BaseGenerator) GetAuthor() string {
	return b.opts.CompanyName
}

// GeneratedAt возвращает время генерации отчёта
func (b *BaseGenerator) GeneratedAt(data *ReportData) time.Time {
	if !data.GeneratedAt.IsZero() {
		return data.GeneratedAt
	}
	return time.Now()
}

// MaxEdges возвращает лимит строк в таблице рёбер
func (b *BaseGenerator) MaxEdges() int {
	if b.opts.MaxEdgesInTable > 0 {
		return b.opts.MaxEdgesInTable
	}
	return 50
}

// FormatPercent форматирует долю как процент
func (b *BaseGenerator) FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// FormatCapacity форматирует ёмкость с учётом сентинела
func (b *BaseGenerator) FormatCapacity(capacity int64, unlimited bool) string {
	if unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", capacity)
}

// FormatDuration форматирует длительность в миллисекундах
func (b *BaseGenerator) FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

// FormatTimestamp форматирует время
func (b *BaseGenerator) FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// EdgeLabel возвращает подпись ребра: имя узла или идентификатор
func (b *BaseGenerator) EdgeLabel(name string, id int64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%d", id)
}
