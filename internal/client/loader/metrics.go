package loader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes loader activity to Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	inFlight prometheus.Gauge
	started  prometheus.Counter
}

// NewMetrics registers the loader collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "petalert",
			Subsystem: "client",
			Name:      "requests_in_flight",
			Help:      "Number of API operations currently in flight",
		}),
		started: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "petalert",
			Subsystem: "client",
			Name:      "requests_started_total",
			Help:      "Total number of API operations started",
		}),
	}
}

func (m *Metrics) begin() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
	m.started.Inc()
}

func (m *Metrics) end() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}
