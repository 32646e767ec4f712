package measure

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type DefaultMetric struct {
	mu       sync.Mutex
	name     string
	written  int64
	elapsed  time.Duration
	bytes    prometheus.Counter
	runs     prometheus.Counter
	duration prometheus.Observer
}

func (mt *DefaultMetric) Name() string {
	return mt.name
}

func (mt *DefaultMetric) Record(written int64, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.written += written
	mt.elapsed += elapsed

	mt.bytes.Add(float64(written))
	mt.runs.Inc()
	mt.duration.Observe(elapsed.Seconds())
}

func (mt *DefaultMetric) Written() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.written
}

func (mt *DefaultMetric) Elapsed() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.elapsed
}

// Round trims d to a precision that reads well next to its magnitude.
func Round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
