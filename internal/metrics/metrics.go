package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawsuit_documents_generated_total",
			Help: "Document generation attempts by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	CasesRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawsuit_cases_registered_total",
			Help: "Case registrations by outcome",
		},
		[]string{"status"},
	)

	ArtifactFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawsuit_artifact_failures_total",
			Help: "Per-artifact failures isolated from their batch",
		},
		[]string{"stage", "error_code"},
	)

	ArchivesBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lawsuit_archives_built_total",
			Help: "Export archives assembled",
		},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lawsuit_operation_duration_seconds",
			Help: "Duration of pipeline operations in seconds",
		},
		[]string{"operation"},
	)
)
