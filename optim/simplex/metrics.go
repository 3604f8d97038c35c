package simplex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/stoich/optim"
)

// Metrics holds the solver's prometheus collectors.
type Metrics struct {
	Solves   *prometheus.CounterVec
	Duration prometheus.Histogram
	Nodes    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stoich",
				Subsystem: "solver",
				Name:      "solves_total",
				Help:      "Total number of solves by final status",
			},
			[]string{"status"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "stoich",
				Subsystem: "solver",
				Name:      "solve_duration_seconds",
				Help:      "Wall time of one solve in seconds",
				Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
		),
		Nodes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "stoich",
				Subsystem: "solver",
				Name:      "bnb_nodes_total",
				Help:      "Total number of branch-and-bound relaxations solved",
			},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Solves, m.Duration, m.Nodes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observe(st optim.Status, elapsed time.Duration, nodes int) {
	if m == nil {
		return
	}
	m.Solves.WithLabelValues(st.String()).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if nodes > 0 {
		m.Nodes.Add(float64(nodes))
	}
}
