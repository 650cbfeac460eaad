// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_transitions_total",
			Help: "Total number of wizard step transitions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Total number of submission attempts by intake mode and outcome",
		},
		[]string{"intake", "outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wizard_submission_duration_seconds",
			Help: "Duration of submission pipeline runs in seconds",
		},
		[]string{"intake"},
	)

	DraftSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_saves_total",
			Help: "Total number of debounced draft snapshot writes by outcome",
		},
		[]string{"outcome"},
	)

	DraftRestores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_restores_total",
			Help: "Total number of draft restore decisions by outcome",
		},
		[]string{"outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wizard_sessions_active",
			Help: "Number of live wizard sessions",
		},
	)
)
