package session

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gitrdm/gokansweeper/pkg/minesweeper"
)

// Metrics holds the collectors for a batch of sessions, including the
// knowledge base collectors every session reports to.
type Metrics struct {
	// KnowledgeBase is shared by every session's knowledge base
	KnowledgeBase *minesweeper.Metrics

	// games counts finished sessions by status
	// Labels: "won", "lost", "stuck"
	games *prometheus.CounterVec

	// moves observes moves per finished session
	moves prometheus.Histogram

	// guesses observes unconstrained moves per finished session
	guesses prometheus.Histogram
}

// NewMetrics creates session and knowledge base collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	kbm, err := minesweeper.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		KnowledgeBase: kbm,
		games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minesweeper_sessions_total",
			Help: "Finished sessions by status",
		}, []string{"status"}),
		moves: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minesweeper_session_moves",
			Help:    "Moves made per session",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		guesses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minesweeper_session_guesses",
			Help:    "Unconstrained moves per session",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.games, m.moves, m.guesses} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering session metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) record(r Result) {
	m.games.WithLabelValues(r.Status.String()).Inc()
	m.moves.Observe(float64(len(r.Moves)))
	m.guesses.Observe(float64(r.Guesses))
}
