package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runtimeMetric описание одной runtime метрики
type runtimeMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	read      func(*runtime.MemStats) (float64, bool)
}

// RuntimeCollector экспортирует метрики Go runtime (горутины, память, GC)
type RuntimeCollector struct {
	metrics []runtimeMetric
}

// NewRuntimeCollector создаёт коллектор runtime метрик
func NewRuntimeCollector(namespace, subsystem string) *RuntimeCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, name),
			help, nil, nil,
		)
	}

	return &RuntimeCollector{
		metrics: []runtimeMetric{
			{
				desc:      desc("runtime_goroutines", "Number of goroutines"),
				valueType: prometheus.GaugeValue,
				read: func(*runtime.MemStats) (float64, bool) {
					return float64(runtime.NumGoroutine()), true
				},
			},
			{
				desc:      desc("runtime_memory_alloc_bytes", "Bytes allocated and still in use"),
				valueType: prometheus.GaugeValue,
				read: func(ms *runtime.MemStats) (float64, bool) {
					return float64(ms.Alloc), true
				},
			},
			{
				desc:      desc("runtime_memory_total_alloc_bytes", "Total bytes allocated, including freed"),
				valueType: prometheus.CounterValue,
				read: func(ms *runtime.MemStats) (float64, bool) {
					return float64(ms.TotalAlloc), true
				},
			},
			{
				desc:      desc("runtime_memory_sys_bytes", "Bytes obtained from the OS"),
				valueType: prometheus.GaugeValue,
				read: func(ms *runtime.MemStats) (float64, bool) {
					return float64(ms.Sys), true
				},
			},
			{
				desc:      desc("runtime_gc_runs_total", "Completed GC cycles"),
				valueType: prometheus.CounterValue,
				read: func(ms *runtime.MemStats) (float64, bool) {
					return float64(ms.NumGC), true
				},
			},
			{
				desc:      desc("runtime_gc_pause_seconds", "Most recent GC pause duration"),
				valueType: prometheus.GaugeValue,
				read: func(ms *runtime.MemStats) (float64, bool) {
					if ms.NumGC == 0 {
						return 0, false
					}
					return float64(ms.PauseNs[(ms.NumGC-1)%uint32(len(ms.PauseNs))]) / 1e9, true
				},
			},
		},
	}
}

// Describe implements prometheus.Collector
func (c *RuntimeCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector
func (c *RuntimeCollector) Collect(ch chan<- prometheus.Metric) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	for _, m := range c.metrics {
		if value, ok := m.read(&ms); ok {
			ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, value)
		}
	}
}

// Timer измеряет длительность операции и пишет её в гистограмму
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer запускает таймер для указанных label значений
func NewTimer(histogram *prometheus.HistogramVec, labels ...string) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram.WithLabelValues(labels...),
	}
}

// ObserveDuration фиксирует и возвращает прошедшее время
func (t *Timer) ObserveDuration() time.Duration {
	elapsed := time.Since(t.start)
	t.observer.Observe(elapsed.Seconds())
	return elapsed
}
