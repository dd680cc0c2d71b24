package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the submission pipeline.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	sinkLatency      prometheus.Histogram
	sinkFailures     *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Total appointment submissions by outcome",
		}, []string{"outcome"}),
		sinkLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "intake",
			Name:      "sink_append_latency_seconds",
			Help:      "Latency of appends to the external sink",
			Buckets:   prometheus.DefBuckets,
		}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "intake",
			Name:      "sink_failures_total",
			Help:      "Sink failures by pipeline stage",
		}, []string{"stage"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.sinkLatency, m.sinkFailures)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *IntakeMetrics) ObserveSinkLatency(seconds float64) {
	if m == nil {
		return
	}
	m.sinkLatency.Observe(seconds)
}

func (m *IntakeMetrics) ObserveSinkFailure(stage string) {
	if m == nil {
		return
	}
	m.sinkFailures.WithLabelValues(stage).Inc()
}
