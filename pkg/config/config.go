package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config - главная структура конфигурации
type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
	Cache   CacheConfig   `koanf:"cache"`
	Solver  SolverConfig  `koanf:"solver"`
	Report  ReportConfig  `koanf:"report"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development / staging / production
	Debug       bool   `koanf:"debug"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`  // debug / info / warn / error
	Format     string `koanf:"format"` // json / text
	Output     string `koanf:"output"` // stdout / stderr / file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"` // мегабайты до ротации
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // дни хранения ротированных файлов
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"` // OTLP/gRPC коллектор
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"` // 0 - ничего, 1 - всё
}

// CacheConfig - настройки кэширования
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // memory / redis
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // только для memory
}

// Address возвращает адрес кэша в виде host:port
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SolverConfig - настройки движка максимального потока
type SolverConfig struct {
	Timeout        time.Duration `koanf:"timeout"`         // лимит времени одного расчёта
	MaxIterations  int           `koanf:"max_iterations"`  // 0 - без ограничения
	MaxConcurrency int           `koanf:"max_concurrency"` // размер пула решателей
	ReturnPaths    bool          `koanf:"return_paths"`    // собирать увеличивающие пути
}

// ReportConfig - настройки генерации отчётов
type ReportConfig struct {
	OutputDir       string   `koanf:"output_dir"`
	Formats         []string `koanf:"formats"` // markdown, csv, json, excel, pdf
	MaxEdgesInTable int      `koanf:"max_edges_in_table"`
	MaxPathsInTable int      `koanf:"max_paths_in_table"`
	CompanyName     string   `koanf:"company_name"`

	PDF PDFConfig `koanf:"pdf"`
}

// PDFConfig - настройки PDF генератора
type PDFConfig struct {
	PageSize          string `koanf:"page_size"`   // A4 / Letter / Legal / A3
	Orientation       string `koanf:"orientation"` // portrait / landscape
	EnablePageNumbers bool   `koanf:"enable_page_numbers"`
}

// validator накапливает проблемы конфигурации, чтобы сообщить их разом
type validator struct {
	problems []string
}

func (v *validator) require(ok bool, msg string) {
	if !ok {
		v.problems = append(v.problems, msg)
	}
}

func (v *validator) oneOf(field, value string, allowed ...string) {
	if slices.Contains(allowed, value) {
		return
	}
	v.problems = append(v.problems,
		fmt.Sprintf("%s must be one of: %s, got %s", field, strings.Join(allowed, ", "), value))
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(v.problems, "; "))
}

// Validate проверяет конфигурацию, заполняя безопасные умолчания
func (c *Config) Validate() error {
	v := &validator{}

	v.require(c.App.Name != "", "app.name is required")

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	v.oneOf("log.level", strings.ToLower(c.Log.Level), "debug", "info", "warn", "error")

	v.require(c.Solver.Timeout >= 0, "solver.timeout must be non-negative")
	v.require(c.Solver.MaxConcurrency >= 0, "solver.max_concurrency must be non-negative")

	if c.Cache.Driver != "" {
		v.oneOf("cache.driver", c.Cache.Driver, "memory", "redis")
	}

	for _, format := range c.Report.Formats {
		v.oneOf("report.formats", format, "markdown", "csv", "json", "excel", "pdf")
	}
	if c.Report.PDF.PageSize != "" {
		v.oneOf("report.pdf.page_size", c.Report.PDF.PageSize, "A4", "Letter", "Legal", "A3")
	}
	if c.Report.PDF.Orientation != "" {
		v.oneOf("report.pdf.orientation", c.Report.PDF.Orientation, "portrait", "landscape")
	}

	return v.err()
}

// IsDevelopment проверяет режим разработки
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction проверяет продакшн режим
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
