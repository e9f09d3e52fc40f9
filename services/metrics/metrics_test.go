package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsObserve(t *testing.T) {
	m := NewBookingMetrics(prometheus.NewRegistry())
	m.ObserveTransition("pending", "assigned", false)
	m.ObserveTransition("pending", "assigned", false)
	m.ObserveConflict("create")
	m.ObservePayout("failed")
	m.ObserveViolations(3)
	m.ObserveViolations(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("pending", "assigned", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payouts.WithLabelValues("failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.violations))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveTransition("a", "b", true)
	m.ObserveConflict("create")
	m.ObservePayout("succeeded")
	m.ObserveViolations(1)
}
