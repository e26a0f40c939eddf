// Package main is the entry point for the netflow CLI.
//
// netflow computes the maximum flow through the reference logistics
// network (terminals, warehouses, shops), attributes the resulting flow
// to the terminal it entered through, analyzes the network for
// bottlenecks and writes reports in the configured formats.
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (prefix: NETFLOW_)
//  2. Config files (config.yaml, config/config.yaml, /etc/netflow/config.yaml)
//  3. Default values from pkg/config/loader.go
//
// Key configuration options (environment variable format):
//
//	# Application
//	NETFLOW_APP_NAME           - Application name (default: netflow)
//	NETFLOW_APP_ENVIRONMENT    - Environment: development, staging, production
//
//	# Logging
//	NETFLOW_LOG_LEVEL    - Log level: debug, info, warn, error (default: info)
//	NETFLOW_LOG_FORMAT   - Log format: json, text (default: json)
//	NETFLOW_LOG_OUTPUT   - Output: stdout, stderr, file (default: stdout)
//
//	# Caching
//	NETFLOW_CACHE_ENABLED     - Enable result caching (default: false)
//	NETFLOW_CACHE_DRIVER      - Cache backend: memory, redis (default: memory)
//	NETFLOW_CACHE_HOST        - Redis host (default: localhost)
//	NETFLOW_CACHE_DEFAULT_TTL - Cache TTL duration (default: 5m)
//
//	# Solver
//	NETFLOW_SOLVER_TIMEOUT        - Per-run time limit (default: 30s)
//	NETFLOW_SOLVER_MAX_ITERATIONS - Augmenting path limit, 0 = unlimited
//
//	# Reports
//	NETFLOW_REPORT_OUTPUT_DIR - Report output directory (default: ./reports)
//	NETFLOW_REPORT_FORMATS    - Comma-separated: markdown,csv,json,excel,pdf
//
//	# Metrics (Prometheus)
//	NETFLOW_METRICS_ENABLED - Expose Prometheus metrics (default: false)
//	NETFLOW_METRICS_PORT    - Metrics HTTP port (default: 9090)
//
//	# Tracing (OpenTelemetry)
//	NETFLOW_TRACING_ENABLED  - Enable distributed tracing (default: false)
//	NETFLOW_TRACING_ENDPOINT - OTLP gRPC endpoint (default: localhost:4317)
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"netflow/internal/network"
	"netflow/internal/report"
	"netflow/internal/service"
	"netflow/pkg/cache"
	"netflow/pkg/config"
	"netflow/pkg/domain"
	"netflow/pkg/logger"
	"netflow/pkg/metrics"
	"netflow/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Телеметрия: трассировка всего прогона
	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.FromConfig(cfg.Tracing, cfg.App))
		if err != nil {
			logger.Warn("failed to init telemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("failed to shutdown telemetry", "error", err)
				}
			}()
		}
	}

	// Метрики Prometheus
	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	if cfg.Metrics.Enabled {
		prometheus.MustRegister(metrics.NewRuntimeCollector(cfg.Metrics.Namespace, cfg.Metrics.Subsystem))
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	// Кэш результатов
	var solverCache *cache.SolverCache
	if cfg.Cache.Enabled {
		baseCache, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Warn("failed to create cache, continuing without cache", "error", err)
		} else {
			solverCache = cache.NewSolverCache(baseCache, cfg.Cache.DefaultTTL)
			logger.Info("solver cache initialized",
				"driver", cfg.Cache.Driver,
				"ttl", cfg.Cache.DefaultTTL,
			)
		}
	}

	svc := service.New(solverCache, service.OptionsFromConfig(cfg.Solver))

	g := network.Build()
	outcome, err := svc.Solve(ctx, g)
	if err != nil {
		logger.Fatal("solve failed", "error", err)
	}

	printOutcome(outcome)

	if len(cfg.Report.Formats) > 0 {
		writeReports(ctx, cfg, outcome)
	}
}

// printOutcome печатает итог расчёта в стандартный вывод
func printOutcome(outcome *service.Outcome) {
	result := outcome.Result

	fmt.Printf("Network: %s (%d nodes, %d edges)\n",
		outcome.Graph.Name, outcome.Graph.NodeCount(), outcome.Graph.EdgeCount())
	fmt.Printf("Maximum flow: %d (%s, %d iterations, %s)\n\n",
		result.MaxFlow, result.Status, result.Iterations, result.Duration.Round(time.Microsecond))

	fmt.Println("Flow attribution (terminal -> shop):")
	for _, row := range outcome.Table.Rows {
		fmt.Printf("  %-12s -> %-10s %6d\n", row.TerminalName, row.ShopName, row.Amount)
	}
	fmt.Println()

	fmt.Println("Terminal totals:")
	ids := make([]int64, 0, len(outcome.Table.TerminalTotals))
	for id := range outcome.Table.TerminalTotals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Printf("  %-12s %6d\n", nodeName(outcome.Graph, id), outcome.Table.TerminalTotals[id])
	}
	if unattributed := outcome.Table.TotalUnattributed(); unattributed > 0 {
		fmt.Printf("  %-12s %6d\n", "unattributed", unattributed)
	}
	if bestID, bestTotal := outcome.Table.BestTerminal(); bestTotal > 0 {
		fmt.Printf("\nTerminal with the highest flow: %s (%d)\n",
			nodeName(outcome.Graph, bestID), bestTotal)
	}

	if summary := outcome.Summary; summary != nil {
		if len(summary.Bottlenecks) > 0 {
			fmt.Println("\nBottlenecks:")
			for _, b := range summary.Bottlenecks {
				fmt.Printf("  %s -> %s  %.0f%% (%s)\n",
					nodeName(outcome.Graph, b.Edge.From),
					nodeName(outcome.Graph, b.Edge.To),
					b.Utilization*100, b.Severity)
			}
		}
		if summary.Efficiency != nil {
			fmt.Printf("\nNetwork efficiency: %.1f%% (grade %s)\n",
				summary.Efficiency.OverallEfficiency*100, summary.Efficiency.Grade)
		}
	}
}

// writeReports записывает отчёты во всех сконфигурированных форматах
func writeReports(ctx context.Context, cfg *config.Config, outcome *service.Outcome) {
	data := report.BuildReportData(outcome.Graph, outcome.Result, outcome.Table, outcome.Summary)
	opts := report.OptionsFromConfig(cfg.Report)

	outputDir := cfg.Report.OutputDir
	if outputDir == "" {
		outputDir = "reports"
	}
	baseName := "netflow-" + time.Now().Format("20060102-150405")

	for _, format := range cfg.Report.Formats {
		gen, err := report.ForFormat(report.Format(format), opts)
		if err != nil {
			logger.Warn("skipping unknown report format", "format", format)
			continue
		}
		path, err := report.WriteFile(ctx, gen, data, outputDir, baseName)
		if err != nil {
			logger.Error("failed to write report", "format", format, "error", err)
			continue
		}
		fmt.Printf("Report written: %s\n", path)
	}
}

func nodeName(g *domain.Graph, id int64) string {
	if node, ok := g.GetNode(id); ok && node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("node %d", id)
}
