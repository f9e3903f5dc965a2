package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveCalculation("Calm", 3, 20*time.Millisecond)
	m.ObserveCalculation("Calm", 0, 5*time.Millisecond)
	m.ObserveOverpass(nil, time.Second)
	m.ObserveOverpass(errors.New("timeout"), 30*time.Second)
	m.ObserveCacheLookup(true)
	m.ObserveCacheLookup(false)
	m.ObserveCacheLookup(false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.CalmCalculations.WithLabelValues("Calm")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OverpassRequests.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OverpassRequests.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LocatorCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.LocatorCache.WithLabelValues("miss")), 0)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation("Calm", 1, time.Millisecond)
		m.ObserveOverpass(nil, time.Millisecond)
		m.ObserveCacheLookup(true)
	})
}
