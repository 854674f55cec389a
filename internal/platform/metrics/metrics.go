package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Handlers accept a
// nil *Metrics in tests; every method guards against it.
type Metrics struct {
	LoginsTotal       prometheus.Counter
	LoginDenials      *prometheus.CounterVec
	SessionsDestroyed prometheus.Counter
	LoginDuration     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LoginsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guildgate_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guildgate_login_denials_total",
			Help: "Login attempts denied, partitioned by reason code",
		}, []string{"reason"}),
		SessionsDestroyed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guildgate_sessions_destroyed_total",
			Help: "Sessions destroyed by logout",
		}),
		LoginDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guildgate_login_duration_seconds",
			Help:    "End-to-end latency of the exchange-and-authorize chain",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncLogin() {
	if m == nil {
		return
	}
	m.LoginsTotal.Inc()
}

func (m *Metrics) IncDenial(reason string) {
	if m == nil {
		return
	}
	m.LoginDenials.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncSessionDestroyed() {
	if m == nil {
		return
	}
	m.SessionsDestroyed.Inc()
}

func (m *Metrics) ObserveLoginDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.LoginDuration.Observe(d.Seconds())
}
