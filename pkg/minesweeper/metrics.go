package minesweeper

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a knowledge base reports to.
// One Metrics value may be shared by any number of knowledge bases.
type Metrics struct {
	// observations counts RecordObservation calls by result
	// Labels: "accepted", "invalid", "contradiction"
	observations *prometheus.CounterVec

	// marks counts newly classified cells
	// Labels: "safe", "mine"
	marks *prometheus.CounterVec

	// derived counts constraints produced by subset subtraction
	derived prometheus.Counter

	// passes observes outer fixpoint passes per observation
	passes prometheus.Histogram

	// constraints tracks live constraints after the most recent observation
	constraints prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves the collectors unregistered. Registering the same names
// twice on one registry fails; share a single Metrics value instead.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minesweeper_kb_observations_total",
			Help: "Observations recorded by result",
		}, []string{"result"}),
		marks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minesweeper_kb_cells_marked_total",
			Help: "Cells classified by the knowledge base",
		}, []string{"kind"}),
		derived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minesweeper_kb_constraints_derived_total",
			Help: "Constraints derived by subset subtraction",
		}),
		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minesweeper_kb_inference_passes",
			Help:    "Fixpoint passes per observation",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		constraints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "minesweeper_kb_live_constraints",
			Help: "Live constraints after the most recent observation",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering knowledge base metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.observations, m.marks, m.derived, m.passes, m.constraints}
}

func (m *Metrics) observe(result string) {
	m.observations.WithLabelValues(result).Inc()
}

func (m *Metrics) mark(mine bool) {
	if mine {
		m.marks.WithLabelValues("mine").Inc()
		return
	}
	m.marks.WithLabelValues("safe").Inc()
}
