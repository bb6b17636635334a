// Package metrics defines and registers all custom Prometheus metrics for the
// users service. It is the single source of truth for metric names, labels,
// and help strings; metrics register themselves with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Command metrics ───────────────────────────────────────────────────────────

// CommandsTotal counts handled commands.
// Labels:
//   - command: create_user, update_user, update_user_role, add_permission, remove_permission
//   - result: "ok" or "error"
var CommandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Total number of commands handled, by command and result.",
	},
	[]string{"command", "result"},
)

// ── Outbox metrics ────────────────────────────────────────────────────────────

// OutboxDrainedTotal counts outbox entries successfully handed to the broker.
var OutboxDrainedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_drained_total",
		Help:      "Total number of outbox entries published and marked.",
	},
)

// OutboxPublishFailuresTotal counts publish attempts that failed and left the
// entry pending for a later drain.
var OutboxPublishFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_publish_failures_total",
		Help:      "Total number of failed outbox publish attempts.",
	},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts envelopes handed to the broker, by event type.
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of events published to the broker.",
	},
	[]string{"event_type"},
)

// ProjectionsAppliedTotal counts events successfully applied to the read side.
var ProjectionsAppliedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projections_applied_total",
		Help:      "Total number of events applied by the projectors.",
	},
	[]string{"event_type"},
)

// EventsDeadLetteredTotal counts deliveries that exhausted their retries and
// were routed to a dead-letter queue.
var EventsDeadLetteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dead_lettered_total",
		Help:      "Total number of deliveries dead-lettered after retry exhaustion.",
	},
	[]string{"queue"},
)

// ProjectionDuration measures how long a single projection takes from
// delivery to persisted read-side state.
var ProjectionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "projection_duration_seconds",
		Help:      "Duration of event projection from delivery to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"event_type"},
)
