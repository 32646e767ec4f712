package measure

import (
	"maps"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "codec"

// DefaultMeasure keeps its metrics in a private Prometheus registry, labelled by
// codec name.
type DefaultMeasure struct {
	mu       sync.Mutex
	stages   map[string]Metric
	registry *prometheus.Registry
	bytes    *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewDefaultMeasure() *DefaultMeasure {
	m := &DefaultMeasure{
		stages:   make(map[string]Metric),
		registry: prometheus.NewRegistry(),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_written_bytes_total",
			Help:      "Bytes written by stages running a codec.",
		}, []string{"codec"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_runs_total",
			Help:      "Stages that ran a codec to completion.",
		}, []string{"codec"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of stages running a codec.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"codec"}),
	}

	m.registry.MustRegister(m.bytes, m.runs, m.duration)

	return m
}

// AddMetric is safe for concurrent use. Adding an id twice returns the existing metric.
func (m *DefaultMeasure) AddMetric(id, name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.stages[id]; ok {
		return mt
	}

	mt := &DefaultMetric{
		name:     name,
		bytes:    m.bytes.WithLabelValues(name),
		runs:     m.runs.WithLabelValues(name),
		duration: m.duration.WithLabelValues(name),
	}
	m.stages[id] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(id string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stages[id]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.stages)
}

func (m *DefaultMeasure) Gatherer() prometheus.Gatherer {
	return m.registry
}

var _ Measure = (*DefaultMeasure)(nil)
