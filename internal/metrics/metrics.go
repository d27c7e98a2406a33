package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pass results used as the "result" label.
const (
	ResultOK          = "ok"
	ResultInvalidData = "invalid_data"
	ResultSourceError = "source_error"
)

// Metrics holds the Prometheus collectors of the chart service.
type Metrics struct {
	Registry *prometheus.Registry

	PassesTotal       *prometheus.CounterVec
	PassDuration      prometheus.Histogram
	Segments          prometheus.Gauge
	Samples           prometheus.Gauge
	CrossingsTotal    prometheus.Counter
	CursorQueries     *prometheus.CounterVec // labels: transport
	CursorSuperseded  prometheus.Counter
	RendersTotal      *prometheus.CounterVec // labels: format
	NotificationsSent prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PassesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splitchart_passes_total",
			Help: "Recomputation passes by result",
		}, []string{"result"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitchart_pass_duration_seconds",
			Help:    "Time to prepare, segment and smooth one series",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		Segments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "splitchart_segments",
			Help: "Segments in the published pass",
		}),
		Samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "splitchart_samples",
			Help: "Samples in the published pass",
		}),
		CrossingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "splitchart_crossing_points_total",
			Help: "Crossing points inserted across all passes",
		}),
		CursorQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splitchart_cursor_queries_total",
			Help: "Cursor queries answered",
		}, []string{"transport"}),
		CursorSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "splitchart_cursor_superseded_total",
			Help: "Stream cursor queries dropped because a newer one arrived",
		}),
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splitchart_renders_total",
			Help: "Charts rendered by output format",
		}, []string{"format"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "splitchart_notifications_sent_total",
			Help: "Crossing alerts delivered",
		}),
	}

	m.Registry.MustRegister(
		m.PassesTotal,
		m.PassDuration,
		m.Segments,
		m.Samples,
		m.CrossingsTotal,
		m.CursorQueries,
		m.CursorSuperseded,
		m.RendersTotal,
		m.NotificationsSent,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
