package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for fare calculation and journey history.
type Metrics struct {
	// Calculations by outcome: success, limit_exceeded, invalid, upstream_error
	Calculations *prometheus.CounterVec

	LimitRejections prometheus.Counter

	// History views by source: cache, remote
	HistoryViews *prometheus.CounterVec

	PipelineDuration prometheus.Histogram

	// Upstream failures by fare service operation
	UpstreamErrors *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pearlcard_fare_calculations_total",
			Help: "Fare calculation requests by outcome",
		}, []string{"outcome"}),

		LimitRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "pearlcard_daily_limit_rejections_total",
			Help: "Submissions rejected because the daily journey cap was reached",
		}),

		HistoryViews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pearlcard_history_views_total",
			Help: "Journey history views by record source",
		}, []string{"source"}),

		PipelineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pearlcard_history_pipeline_duration_milliseconds",
			Help:    "Duration of filter, sort, aggregate and paginate over a journey history",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}),

		UpstreamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pearlcard_upstream_errors_total",
			Help: "Failed calls to the remote fare service by operation",
		}, []string{"op"}),
	}
}

func (m *Metrics) IncrementCalculation(outcome string) {
	if m != nil {
		m.Calculations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementLimitRejection() {
	if m != nil {
		m.LimitRejections.Inc()
	}
}

func (m *Metrics) IncrementHistoryView(source string) {
	if m != nil {
		m.HistoryViews.WithLabelValues(source).Inc()
	}
}

// ObservePipeline records the processing time in milliseconds.
func (m *Metrics) ObservePipeline(d time.Duration) {
	if m != nil {
		m.PipelineDuration.Observe(float64(d) / float64(time.Millisecond))
	}
}

func (m *Metrics) IncrementUpstreamError(op string) {
	if m != nil {
		m.UpstreamErrors.WithLabelValues(op).Inc()
	}
}
