package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCalculation("success")
	m.IncrementCalculation("success")
	m.IncrementLimitRejection()
	m.IncrementHistoryView("cache")
	m.IncrementUpstreamError("zones")
	m.ObservePipeline(2 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LimitRejections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryViews.WithLabelValues("cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("zones")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PipelineDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementCalculation("success")
		m.IncrementLimitRejection()
		m.IncrementHistoryView("remote")
		m.IncrementUpstreamError("zones")
		m.ObservePipeline(time.Millisecond)
	})
}
