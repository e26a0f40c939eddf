// Package service оркестрирует полный цикл расчёта: решение задачи
// о максимальном потоке, атрибуцию по терминалам, анализ сети и кэширование.
package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"netflow/internal/analysis"
	"netflow/internal/solver"
	"netflow/pkg/apperror"
	"netflow/pkg/cache"
	"netflow/pkg/config"
	"netflow/pkg/domain"
	"netflow/pkg/logger"
	"netflow/pkg/metrics"
	"netflow/pkg/telemetry"
)

// FlowService выполняет расчёт потока и атрибуцию для графа сети
type FlowService struct {
	metrics     *metrics.Metrics
	solverCache *cache.SolverCache
	solverOpts  *solver.Options
}

// New создаёт сервис. Кэш может быть nil — тогда кэширование отключено.
func New(solverCache *cache.SolverCache, opts *solver.Options) *FlowService {
	if opts == nil {
		opts = solver.DefaultOptions()
	}
	return &FlowService{
		metrics:     metrics.Get(),
		solverCache: solverCache,
		solverOpts:  opts,
	}
}

// OptionsFromConfig собирает опции решателя из конфигурации приложения
func OptionsFromConfig(cfg config.SolverConfig) *solver.Options {
	opts := solver.DefaultOptions()
	if cfg.Timeout > 0 {
		opts = opts.WithTimeout(cfg.Timeout)
	}
	if cfg.MaxIterations > 0 {
		opts = opts.WithMaxIterations(cfg.MaxIterations)
	}
	opts = opts.WithReturnPaths(cfg.ReturnPaths)
	return opts
}

// Outcome результат полного цикла расчёта
type Outcome struct {
	RunID        string
	Graph        *domain.Graph
	Result       *solver.Result
	Attributions map[int64]*solver.Attribution
	Table        *analysis.AttributionTable
	Summary      *analysis.Summary
	FromCache    bool
}

// Solve выполняет полный цикл: кэш, расчёт потока, проверку
// сохранения, атрибуцию по терминалам и анализ сети.
//
// Граф мутируется: найденный поток применяется к его рёбрам.
func (s *FlowService) Solve(ctx context.Context, g *domain.Graph) (*Outcome, error) {
	runID := uuid.NewString()
	log := logger.WithRunID(runID)

	ctx, span := telemetry.StartSpan(ctx, "FlowService.Solve",
		trace.WithAttributes(telemetry.GraphAttributes(
			g.NodeCount(), g.EdgeCount(), g.SourceID, g.SinkID)...),
	)
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordGraphSize("solve", g.NodeCount(), g.EdgeCount())
	}

	outcome := &Outcome{RunID: runID, Graph: g}

	result, fromCache := s.solveOrCached(ctx, g, log)
	if result.Error != nil {
		telemetry.SetError(ctx, result.Error)
		s.recordSolve(result, fromCache)
		return nil, apperror.Wrap(result.Error, apperror.CodeInvalidArgument, "flow computation failed")
	}
	outcome.Result = result
	outcome.FromCache = fromCache

	span.SetAttributes(attribute.Bool("cache_hit", fromCache))
	span.SetAttributes(telemetry.SolveAttributes(
		cache.AlgorithmEdmondsKarp, result.Iterations, result.MaxFlow, result.Status.String())...)

	g.ApplyFlow(result.Flow)

	// Проверка корректности найденного потока
	if verr := analysis.VerifyFlow(g, result.Flow); verr.HasErrors() {
		telemetry.SetError(ctx, verr.Errors[0])
		log.Error("flow verification failed", "errors", len(verr.Errors))
		return nil, verr.Errors[0]
	}

	s.attribute(ctx, outcome, log)
	outcome.Table = analysis.BuildAttributionTable(g, outcome.Attributions)
	outcome.Summary = analysis.Analyze(g, 0)

	s.recordSolve(result, fromCache)
	s.recordAnalysis(outcome)

	if !fromCache {
		s.store(ctx, outcome, log)
	}

	log.Info("solve completed",
		"max_flow", result.MaxFlow,
		"status", result.Status.String(),
		"iterations", result.Iterations,
		"duration", result.Duration,
		"from_cache", fromCache,
	)

	return outcome, nil
}

// solveOrCached возвращает результат из кэша либо запускает решатель
func (s *FlowService) solveOrCached(ctx context.Context, g *domain.Graph, log *slog.Logger) (*solver.Result, bool) {
	if s.solverCache != nil {
		cached, found, err := s.solverCache.Get(ctx, g, cache.AlgorithmEdmondsKarp)
		if err != nil {
			log.Warn("cache lookup failed", "error", err)
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(found)
		}
		if found {
			telemetry.AddEvent(ctx, "cache_hit",
				attribute.Int64("max_flow", cached.MaxFlow),
			)
			return &solver.Result{
				MaxFlow:    cached.MaxFlow,
				Flow:       cached.ToFlowMap(),
				Iterations: cached.Iterations,
				Status:     solver.StatusOptimal,
			}, true
		}
	}

	return solver.SolveGraph(ctx, g, s.solverOpts), false
}

// attribute раскладывает поток по терминалам
func (s *FlowService) attribute(ctx context.Context, outcome *Outcome, log *slog.Logger) {
	g := outcome.Graph
	flow := outcome.Result.Flow

	interior := make(map[int64]bool)
	for _, node := range g.GetNodesByType(domain.NodeTypeWarehouse) {
		interior[node.ID] = true
	}

	isShop := func(id int64) bool {
		node, ok := g.GetNode(id)
		return ok && node.Type == domain.NodeTypeShop
	}

	terminals := g.GetNodesByType(domain.NodeTypeTerminal)
	sort.Slice(terminals, func(i, j int) bool { return terminals[i].ID < terminals[j].ID })

	outcome.Attributions = make(map[int64]*solver.Attribution, len(terminals))
	for _, terminal := range terminals {
		attr := solver.Decompose(flow, terminal.ID, interior, isShop)
		outcome.Attributions[terminal.ID] = attr

		span := telemetry.SpanFromContext(ctx)
		span.SetAttributes(telemetry.AttributionAttributes(
			attr.Entry, len(attr.Terminals), attr.Attributed(), attr.Unattributed)...)

		if attr.Unattributed > 0 {
			log.Warn("unattributed flow detected",
				"terminal", terminal.ID,
				"unattributed", attr.Unattributed,
			)
		}
	}
}

// store сохраняет результат в кэш
func (s *FlowService) store(ctx context.Context, outcome *Outcome, log *slog.Logger) {
	if s.solverCache == nil {
		return
	}

	result := outcome.Result

	cached := &cache.CachedSolveResult{
		MaxFlow:    result.MaxFlow,
		Status:     result.Status.String(),
		Iterations: result.Iterations,
		DurationMs: float64(result.Duration.Microseconds()) / 1000,
	}
	for _, key := range result.Flow.PositiveEdges() {
		edge := &cache.FlowEdgeCache{
			From: key.From,
			To:   key.To,
			Flow: result.Flow.Flow(key.From, key.To),
		}
		if ge, ok := outcome.Graph.GetEdge(key.From, key.To); ok {
			edge.Capacity = ge.Capacity
			if !domain.IsUnlimited(ge.Capacity) && ge.Capacity > 0 {
				edge.Utilization = float64(edge.Flow) / float64(ge.Capacity)
			}
		}
		cached.FlowEdges = append(cached.FlowEdges, edge)
	}
	for terminal, attr := range outcome.Attributions {
		if cached.Terminals == nil {
			cached.Terminals = make(map[int64]int64, len(outcome.Attributions))
		}
		cached.Terminals[terminal] = attr.Attributed()
		cached.Unattributed += attr.Unattributed
	}

	if err := s.solverCache.Set(ctx, outcome.Graph, cache.AlgorithmEdmondsKarp, cached, 0); err != nil {
		log.Warn("failed to cache solve result", "error", err)
	}
}

func (s *FlowService) recordSolve(result *solver.Result, fromCache bool) {
	if s.metrics == nil || fromCache {
		return
	}
	s.metrics.RecordSolveOperation(
		cache.AlgorithmEdmondsKarp,
		result.Status.String(),
		result.Duration,
		result.MaxFlow,
		result.Iterations,
	)
}

func (s *FlowService) recordAnalysis(outcome *Outcome) {
	if s.metrics == nil {
		return
	}

	var unattributed int64
	for _, attr := range outcome.Attributions {
		unattributed += attr.Unattributed
	}
	status := "complete"
	if unattributed > 0 {
		status = "partial"
	}
	s.metrics.RecordAttribution(status, unattributed)

	if outcome.Summary != nil {
		counts := make(map[string]int)
		for _, b := range outcome.Summary.Bottlenecks {
			counts[b.Severity.String()]++
		}
		for severity, count := range counts {
			s.metrics.RecordBottlenecks(severity, count)
		}
	}
}

// Invalidate сбрасывает кэшированный результат для графа
func (s *FlowService) Invalidate(ctx context.Context, g *domain.Graph) error {
	if s.solverCache == nil {
		return nil
	}
	return s.solverCache.Invalidate(ctx, g)
}
