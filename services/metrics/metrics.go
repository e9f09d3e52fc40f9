package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts lifecycle transitions, slot conflicts and payouts.
type BookingMetrics struct {
	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	payouts     *prometheus.CounterVec
	violations  prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "missions",
			Name:      "transitions_total",
			Help:      "Mission status transitions",
		}, []string{"from", "to", "override"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "missions",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected because a slot was already taken",
		}, []string{"source"}),
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "payouts",
			Name:      "attempts_total",
			Help:      "Provider payout attempts",
		}, []string{"status"}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carebook",
			Subsystem: "integrity",
			Name:      "overlap_violations_total",
			Help:      "Overlapping active missions found by the integrity scan",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitions, m.conflicts, m.payouts, m.violations)
	return m
}

func (m *BookingMetrics) ObserveTransition(from, to string, override bool) {
	if m == nil {
		return
	}
	label := "false"
	if override {
		label = "true"
	}
	m.transitions.WithLabelValues(from, to, label).Inc()
}

// ObserveConflict records a rejected booking; source is "precheck", "create"
// or "override".
func (m *BookingMetrics) ObserveConflict(source string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(source).Inc()
}

func (m *BookingMetrics) ObservePayout(status string) {
	if m == nil {
		return
	}
	m.payouts.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveViolations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.violations.Add(float64(n))
}
