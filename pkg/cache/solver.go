package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"netflow/pkg/domain"
)

// AlgorithmEdmondsKarp имя алгоритма в ключах кэша
const AlgorithmEdmondsKarp = "edmonds_karp"

// SolverCache обёртка над Cache для результатов расчёта потока:
// ключи строятся из хеша графа, значения сериализуются в JSON
type SolverCache struct {
	backend    Cache
	defaultTTL time.Duration
}

// CachedSolveResult кэшированный результат
type CachedSolveResult struct {
	MaxFlow      int64            `json:"max_flow"`
	Status       string           `json:"status"`
	Iterations   int              `json:"iterations"`
	DurationMs   float64          `json:"duration_ms"`
	FlowEdges    []*FlowEdgeCache `json:"flow_edges,omitempty"`
	Terminals    map[int64]int64  `json:"terminals,omitempty"`
	Unattributed int64            `json:"unattributed,omitempty"`
	ComputedAt   time.Time        `json:"computed_at"`
}

// FlowEdgeCache кэшированное ребро с потоком
type FlowEdgeCache struct {
	From        int64   `json:"from"`
	To          int64   `json:"to"`
	Flow        int64   `json:"flow"`
	Capacity    int64   `json:"capacity"`
	Utilization float64 `json:"utilization"`
}

// NewSolverCache создаёт кэш для результатов расчёта
func NewSolverCache(backend Cache, defaultTTL time.Duration) *SolverCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &SolverCache{backend: backend, defaultTTL: defaultTTL}
}

func (sc *SolverCache) key(g *domain.Graph, algorithm string) string {
	return BuildSolveKey(GraphHash(g), algorithm)
}

// Get получает кэшированный результат. Второе значение - признак
// попадания; промах не является ошибкой
func (sc *SolverCache) Get(ctx context.Context, g *domain.Graph, algorithm string) (*CachedSolveResult, bool, error) {
	key := sc.key(g, algorithm)

	data, err := sc.backend.Get(ctx, key)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var result CachedSolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённую запись считаем промахом и сразу вычищаем
		_ = sc.backend.Delete(ctx, key) //nolint:errcheck // best effort
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет результат в кэш. Нулевой ttl заменяется на defaultTTL
func (sc *SolverCache) Set(ctx context.Context, g *domain.Graph, algorithm string, result *CachedSolveResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}
	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return sc.backend.Set(ctx, sc.key(g, algorithm), data, ttl)
}

// ToFlowMap восстанавливает карту потока из кэшированных рёбер
func (r *CachedSolveResult) ToFlowMap() domain.FlowMap {
	flow := make(domain.FlowMap, len(r.FlowEdges)*2)
	for _, e := range r.FlowEdges {
		flow.Add(e.From, e.To, e.Flow)
	}
	return flow
}

// Invalidate удаляет записи графа по всем алгоритмам
func (sc *SolverCache) Invalidate(ctx context.Context, g *domain.Graph) error {
	_, err := sc.backend.DeleteByPattern(ctx, fmt.Sprintf("solve:*:%s", GraphHash(g)))
	return err
}

// InvalidateAll удаляет весь кэш результатов
func (sc *SolverCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.backend.DeleteByPattern(ctx, "solve:*")
}
