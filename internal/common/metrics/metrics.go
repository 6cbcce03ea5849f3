// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_scored_total",
			Help: "Total number of assessments evaluated, by tier and evaluator",
		},
		[]string{"tier", "evaluator"},
	)

	EntitlementChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_checks_total",
			Help: "Total number of entitlement checks, by tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	EntitlementGrantsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_grants_issued_total",
			Help: "Total number of access grants issued, by tier",
		},
		[]string{"tier"},
	)

	QuestionSetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_set_loads_total",
			Help: "Total number of question set loads, by tier and source",
		},
		[]string{"tier", "source"},
	)
)
