// README: Prometheus collectors for the turn pipeline and its collaborators.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townguide_turns_total",
			Help: "Conversation turns handled, by reply type",
		},
		[]string{"reply_type"},
	)

	TurnFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "townguide_turn_failures_total",
			Help: "Turns that hit the pipeline failure boundary",
		},
	)

	CollaboratorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townguide_collaborator_fallbacks_total",
			Help: "External lookups that degraded to an absent value or fallback text",
		},
		[]string{"collaborator"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "townguide_turn_duration_seconds",
			Help:    "End-to-end turn latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	ActionsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townguide_actions_executed_total",
			Help: "Router actions handed to the executor, by type",
		},
		[]string{"action"},
	)
)
