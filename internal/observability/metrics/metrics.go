package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IntakeMetrics exposes counters/histograms for the appointment intake flow.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	emailsTotal      *prometheus.CounterVec
	rateLimitedTotal prometheus.Counter
	dispatchLatency  prometheus.Histogram
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Appointment form submissions by outcome",
		}, []string{"status"}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "intake",
			Name:      "emails_total",
			Help:      "Notification emails by recipient kind and outcome",
		}, []string{"kind", "status"}),
		rateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "intake",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the dispatch rate limit",
		}),
		dispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "intake",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of the full email dispatch for one submission",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.emailsTotal, m.rateLimitedTotal, m.dispatchLatency)
	return m
}

func (m *IntakeMetrics) IncSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *IntakeMetrics) IncEmail(kind, status string) {
	if m == nil {
		return
	}
	m.emailsTotal.WithLabelValues(kind, status).Inc()
}

func (m *IntakeMetrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimitedTotal.Inc()
}

// ObserveDispatch starts timing one dispatch and returns a func to
// record the elapsed time.
func (m *IntakeMetrics) ObserveDispatch() func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.dispatchLatency.Observe(time.Since(start).Seconds())
	}
}
