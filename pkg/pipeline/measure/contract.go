package measure

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Measure collects one Metric per stage of a run.
type Measure interface {
	// AddMetric registers the stage id running the codec name.
	AddMetric(id, name string) Metric
	// AllMetrics returns the metrics by stage id.
	AllMetrics() map[string]Metric
	// Gatherer exposes the collected values in the Prometheus format.
	Gatherer() prometheus.Gatherer
}

// Metric holds what a stage did.
type Metric interface {
	Name() string
	Record(written int64, elapsed time.Duration)
	Written() int64
	Elapsed() time.Duration
}
