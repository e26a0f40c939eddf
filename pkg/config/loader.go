package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "NETFLOW_"
	configEnvVar = "CONFIG_PATH"
)

// Loader загружает конфигурацию: defaults, затем yaml файл,
// затем переменные окружения, каждый слой перекрывает предыдущий
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// LoaderOption опция загрузчика
type LoaderOption func(*Loader)

// WithConfigPaths задаёт пути поиска файла конфигурации
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

// WithEnvPrefix задаёт префикс переменных окружения
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// NewLoader создаёт загрузчик конфигурации
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: envPrefix,
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/netflow/config.yaml",
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load собирает и валидирует конфигурацию
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Файл не обязателен, его отсутствие не срывает запуск
	if err := l.loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"app": map[string]any{
			"name":        "netflow",
			"version":     "1.0.0",
			"environment": "development",
			"debug":       false,
		},
		"log": map[string]any{
			"level":       "info",
			"format":      "json",
			"output":      "stdout",
			"max_size":    100,
			"max_backups": 3,
			"max_age":     7,
			"compress":    true,
		},
		"metrics": map[string]any{
			"enabled":   true,
			"port":      9090,
			"path":      "/metrics",
			"namespace": "netflow",
			"subsystem": "",
		},
		"tracing": map[string]any{
			"enabled":      false,
			"endpoint":     "localhost:4317",
			"service_name": "netflow",
			"sample_rate":  0.1,
		},
		"cache": map[string]any{
			"enabled":     false,
			"driver":      "memory",
			"host":        "localhost",
			"port":        6379,
			"db":          0,
			"default_ttl": 5 * time.Minute,
			"max_entries": 10000,
		},
		"solver": map[string]any{
			"timeout":         30 * time.Second,
			"max_iterations":  0,
			"max_concurrency": 10,
			"return_paths":    false,
		},
		"report": map[string]any{
			"output_dir":         "reports",
			"formats":            []string{"markdown"},
			"max_edges_in_table": 50,
			"max_paths_in_table": 20,
			"company_name":       "NetFlow",
			"pdf": map[string]any{
				"page_size":           "A4",
				"orientation":         "portrait",
				"enable_page_numbers": true,
			},
		},
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

// loadConfigFile берёт первый существующий файл: путь из CONFIG_PATH
// приоритетнее списка configPaths
func (l *Loader) loadConfigFile() error {
	candidates := l.configPaths
	if p := os.Getenv(configEnvVar); p != "" {
		candidates = append([]string{p}, candidates...)
	}

	for _, path := range candidates {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		return l.k.Load(file.Provider(abs), yaml.Parser())
	}

	return fmt.Errorf("config file not found in paths: %v", candidates)
}

// configSections секции верхнего уровня; первый сегмент переменной
// окружения сопоставляется с ними, остаток остаётся именем поля
var configSections = map[string]bool{
	"app":     true,
	"log":     true,
	"metrics": true,
	"tracing": true,
	"cache":   true,
	"solver":  true,
	"report":  true,
}

// envToConfigKey переводит NETFLOW_SOLVER_MAX_ITERATIONS в
// solver.max_iterations; вложенная секция report.pdf обрабатывается отдельно
func (l *Loader) envToConfigKey(envKey string) string {
	key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))

	if rest, ok := strings.CutPrefix(key, "report_pdf_"); ok {
		return "report.pdf." + rest
	}

	section, rest, found := strings.Cut(key, "_")
	if found && configSections[section] {
		return section + "." + rest
	}
	return strings.ReplaceAll(key, "_", ".")
}

// sliceFields поля, которые парсятся как списки через запятую
var sliceFields = map[string]bool{
	"report.formats": true,
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey, value string) (string, interface{}) {
		key := l.envToConfigKey(envKey)
		if sliceFields[key] {
			return key, splitAndTrim(value)
		}
		return key, value
	}), nil)
}

func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Load загружает конфигурацию с настройками по умолчанию
func Load() (*Config, error) {
	return NewLoader().Load()
}

// MustLoad загружает конфигурацию или паникует
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic("config: " + err.Error())
	}
	return cfg
}
