package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_runs_total",
		Help: "Pipeline runs by outcome kind.",
	},
		[]string{"kind"},
	)

	StageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_stage_failures_total",
		Help: "Failed runs by pipeline stage and failure kind.",
	},
		[]string{"stage", "kind"},
	)

	ClaimConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_claim_conflicts_total",
		Help: "Claim races lost to another worker.",
	})

	AppointmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_appointments_created_total",
		Help: "Delivery appointments booked, existing ones included.",
	})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_notifications_sent_total",
		Help: "Confirmation messages accepted by the channel.",
	})

	NotificationsDedupedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_notifications_deduped_total",
		Help: "Send calls answered from an earlier accepted delivery.",
	})

	ContentFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_content_fallbacks_total",
		Help: "Confirmations sent with the default passage after generator failures.",
	})

	AuditEventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_audit_events_dropped_total",
		Help: "Stage events dropped because the audit buffer was full.",
	})

	ProcessDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fulfillment_process_duration_seconds",
		Help:    "Wall time of one pipeline run.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})
)
