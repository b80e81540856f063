// Package telemetry holds the Prometheus metrics and OpenTelemetry tracing
// used by the dispatch runtime, and an HTTP endpoint exposing them.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dispatch"

var (
	// Dispatch metrics
	ActionsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "actions_total",
			Help:      "Total number of actions dispatched to a store",
		},
		[]string{"action"},
	)

	StateChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "state_changes_total",
			Help:      "Total number of dispatches that reported a state change",
		},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent inside reducers",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	// Runtime loop metrics
	Renders = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runtime",
			Name:      "renders_total",
			Help:      "Total number of draw callback invocations",
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "runtime",
			Name:      "queue_depth",
			Help:      "Actions waiting in the runtime action queue",
		},
	)

	InputEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runtime",
			Name:      "input_events_total",
			Help:      "Normalized terminal events received by the runtime",
		},
		[]string{"type"},
	)

	// Task metrics
	TasksSpawned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "spawned_total",
			Help:      "Total number of tasks started",
		},
		[]string{"mode"},
	)

	TasksCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "cancelled_total",
			Help:      "Total number of tasks cancelled or replaced before delivering",
		},
	)

	TasksCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "completed_total",
			Help:      "Total number of tasks that delivered their action",
		},
	)

	TasksPanicked = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "panicked_total",
			Help:      "Total number of tasks that panicked",
		},
	)

	TasksRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "running",
			Help:      "Number of registered tasks",
		},
	)

	// Subscription metrics
	SubscriptionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "subscriptions",
			Name:      "active",
			Help:      "Number of registered subscriptions",
		},
	)

	SubscriptionEmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscriptions",
			Name:      "emissions_total",
			Help:      "Total number of actions emitted by subscriptions",
		},
		[]string{"kind"},
	)

	SubscriptionsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscriptions",
			Name:      "cancelled_total",
			Help:      "Total number of subscriptions cancelled or replaced",
		},
	)
)
