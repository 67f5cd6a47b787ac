package timerq

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Started   prometheus.Counter
	Fired     prometheus.Counter
	Dropped   prometheus.Counter
	Discarded prometheus.Counter
	Pending   prometheus.Gauge
}

// NewMetrics creates the engine metrics and registers them on reg.
// A nil reg leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Started: f.NewCounter(prometheus.CounterOpts{
			Name: "timerq_timers_started_total",
			Help: "Total timers issued by the handle.",
		}),
		Fired: f.NewCounter(prometheus.CounterOpts{
			Name: "timerq_timers_fired_total",
			Help: "Total timers announced to the consumer.",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "timerq_announcements_dropped_total",
			Help: "Total fired timers dropped because the consumer detached.",
		}),
		Discarded: f.NewCounter(prometheus.CounterOpts{
			Name: "timerq_timers_discarded_total",
			Help: "Total pending timers discarded at worker shutdown.",
		}),
		Pending: f.NewGauge(prometheus.GaugeOpts{
			Name: "timerq_timers_pending",
			Help: "Timers currently tracked by the worker.",
		}),
	}
}
