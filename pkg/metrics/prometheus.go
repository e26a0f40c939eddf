package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics глобальный контейнер метрик
type Metrics struct {
	// Метрики расчёта потока
	SolveOperationsTotal *prometheus.CounterVec
	SolveDuration        *prometheus.HistogramVec
	SolveIterations      *prometheus.HistogramVec
	MaxFlowValue         *prometheus.GaugeVec
	GraphNodesTotal      *prometheus.HistogramVec
	GraphEdgesTotal      *prometheus.HistogramVec

	// Метрики декомпозиции и анализа
	AttributionsTotal *prometheus.CounterVec
	UnattributedFlow  prometheus.Gauge
	BottlenecksFound  *prometheus.HistogramVec

	// Метрики кэша
	CacheOperationsTotal *prometheus.CounterVec

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// builder сокращает повторение namespace/subsystem при регистрации
type builder struct {
	namespace string
	subsystem string
}

func (b builder) counter(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: b.namespace,
		Subsystem: b.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (b builder) histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: b.namespace,
		Subsystem: b.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}

func (b builder) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: b.namespace,
		Subsystem: b.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (b builder) gauge(name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: b.namespace,
		Subsystem: b.subsystem,
		Name:      name,
		Help:      help,
	})
}

// InitMetrics инициализирует метрики
func InitMetrics(namespace, subsystem string) *Metrics {
	b := builder{namespace: namespace, subsystem: subsystem}

	m := &Metrics{
		SolveOperationsTotal: b.counter("solve_operations_total",
			"Total number of solve operations", "algorithm", "status"),

		SolveDuration: b.histogram("solve_duration_seconds",
			"Duration of solve operations",
			[]float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}, "algorithm"),

		SolveIterations: b.histogram("solve_iterations",
			"Number of augmenting path iterations per solve",
			[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}, "algorithm"),

		MaxFlowValue: b.gaugeVec("max_flow_value",
			"Last calculated max flow value", "algorithm"),

		GraphNodesTotal: b.histogram("graph_nodes_total",
			"Number of nodes in processed graphs",
			[]float64{10, 50, 100, 500, 1000, 5000, 10000, 50000}, "operation"),

		GraphEdgesTotal: b.histogram("graph_edges_total",
			"Number of edges in processed graphs",
			[]float64{20, 100, 500, 1000, 5000, 10000, 50000, 100000}, "operation"),

		AttributionsTotal: b.counter("attributions_total",
			"Total number of flow attributions", "status"),

		UnattributedFlow: b.gauge("unattributed_flow",
			"Flow left unattributed by the last decomposition"),

		BottlenecksFound: b.histogram("bottlenecks_found",
			"Number of bottlenecks found",
			[]float64{0, 1, 2, 5, 10, 20, 50}, "severity"),

		CacheOperationsTotal: b.counter("cache_operations_total",
			"Total number of cache lookups", "result"),

		ServiceInfo: b.gaugeVec("service_info",
			"Service information", "version", "environment"),
	}

	defaultMetrics = m
	return m
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("netflow", "")
	}
	return defaultMetrics
}

// RecordSolveOperation записывает метрики операции решения
func (m *Metrics) RecordSolveOperation(algorithm, status string, duration time.Duration, maxFlow int64, iterations int) {
	m.SolveOperationsTotal.WithLabelValues(algorithm, status).Inc()
	m.SolveDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	m.SolveIterations.WithLabelValues(algorithm).Observe(float64(iterations))
	m.MaxFlowValue.WithLabelValues(algorithm).Set(float64(maxFlow))
}

// RecordGraphSize записывает размер графа
func (m *Metrics) RecordGraphSize(operation string, nodes, edges int) {
	m.GraphNodesTotal.WithLabelValues(operation).Observe(float64(nodes))
	m.GraphEdgesTotal.WithLabelValues(operation).Observe(float64(edges))
}

// RecordAttribution записывает результат декомпозиции потока
func (m *Metrics) RecordAttribution(status string, unattributed int64) {
	m.AttributionsTotal.WithLabelValues(status).Inc()
	m.UnattributedFlow.Set(float64(unattributed))
}

// RecordBottlenecks записывает количество найденных узких мест
func (m *Metrics) RecordBottlenecks(severity string, count int) {
	m.BottlenecksFound.WithLabelValues(severity).Observe(float64(count))
}

// RecordCacheLookup записывает результат обращения к кэшу
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheOperationsTotal.WithLabelValues(result).Inc()
}

// SetServiceInfo устанавливает информацию о сервисе
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler возвращает HTTP handler для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer запускает HTTP сервер для метрик
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // ответ уже отправлен
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
