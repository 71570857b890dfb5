package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChallengeVerifications *prometheus.CounterVec
	AdmissionDecisions     *prometheus.CounterVec
	BookingsPersisted      prometheus.Counter
	AnalyticsEventsDropped prometheus.Counter
}

// New registers the booking guard metrics with reg. Pass a fresh registry in
// tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ChallengeVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "closerly_challenge_verifications_total",
			Help: "Total bot-challenge verifications by outcome",
		}, []string{"outcome"}),
		AdmissionDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "closerly_admission_decisions_total",
			Help: "Total admission decisions by outcome and rejection reason",
		}, []string{"outcome", "reason"}),
		BookingsPersisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "closerly_bookings_persisted_total",
			Help: "Total call bookings persisted",
		}),
		AnalyticsEventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "closerly_analytics_events_dropped_total",
			Help: "Total analytics events dropped due to store errors",
		}),
	}
}

func (m *Metrics) ObserveVerification(success bool) {
	if m == nil {
		return
	}
	outcome := "fail"
	if success {
		outcome = "pass"
	}
	m.ChallengeVerifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAdmission(allowed bool, reason string) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if allowed {
		outcome = "allowed"
		reason = "none"
	}
	m.AdmissionDecisions.WithLabelValues(outcome, reason).Inc()
}

func (m *Metrics) ObserveBookingPersisted() {
	if m == nil {
		return
	}
	m.BookingsPersisted.Inc()
}

func (m *Metrics) ObserveAnalyticsDrop() {
	if m == nil {
		return
	}
	m.AnalyticsEventsDropped.Inc()
}
