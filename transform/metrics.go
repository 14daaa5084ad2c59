package transform

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records pipeline activity. A nil *Metrics records nothing.
type Metrics struct {
	files        *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	helpers      *prometheus.CounterVec
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morph_files_total",
				Help: "Files processed by status.",
			},
			[]string{"status"},
		),
		passDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "morph_pass_duration_seconds",
				Help:    "Duration of a single pass over a file.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"pass"},
		),
		helpers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morph_helpers_injected_total",
				Help: "Helper declarations injected into files.",
			},
			[]string{"helper"},
		),
	}
}

func (m *Metrics) countFile(status string) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(status).Inc()
}

func (m *Metrics) observePass(key string, d time.Duration) {
	if m == nil {
		return
	}
	m.passDuration.WithLabelValues(key).Observe(d.Seconds())
}

func (m *Metrics) countHelper(name string) {
	if m == nil {
		return
	}
	m.helpers.WithLabelValues(name).Inc()
}
