package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the workflow collectors. The zero value is not usable; use New.
type Metrics struct {
	Decisions   *prometheus.CounterVec
	Submissions *prometheus.CounterVec
	Adjustments *prometheus.CounterVec
	Validation  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration, which tests rely on.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "inspection_decisions_total",
			Help:      "Line item decisions recorded, by outcome.",
		}, []string{"outcome"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "submissions_total",
			Help:      "Submissions to the persistence gateway, by kind and result.",
		}, []string{"kind", "result"}),
		Adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "stock_adjustment_records_total",
			Help:      "Saved stock adjustment records, by direction.",
		}, []string{"type"}),
		Validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "validation_rejections_total",
			Help:      "Inputs rejected by workflow validation, by code.",
		}, []string{"code"}),
	}
	if reg != nil {
		reg.MustRegister(m.Decisions, m.Submissions, m.Adjustments, m.Validation)
	}
	return m
}

// Submission records the result of a gateway call.
func (m *Metrics) Submission(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Submissions.WithLabelValues(kind, result).Inc()
}
