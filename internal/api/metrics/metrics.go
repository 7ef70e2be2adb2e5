// Package metrics defines and registers all custom Prometheus metrics for the
// SmartMed doctor portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

const namespace = "smartmed"

// ── Sign-in metrics ──────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts.
// Labels:
//   - result: "success" or "failure"
//   - reason: the failure kind (e.g. "invalid_credentials"), empty on success
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result and failure kind.",
	},
	[]string{"result", "reason"},
)

// SignOutsTotal counts sign-out requests, including repeated ones.
var SignOutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_outs_total",
		Help:      "Total number of sign-out requests.",
	},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session store state changes.
// Labels:
//   - from, to: AuthState values (e.g. "LOADING", "AUTHENTICATED")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"from", "to"},
)

// CorruptSessionsTotal counts persisted sessions discarded during restore.
var CorruptSessionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "corrupt_sessions_total",
		Help:      "Total number of persisted sessions discarded as corrupt.",
	},
)

// SessionStoresActive is the number of session stores held by the registry.
var SessionStoresActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_stores_active",
		Help:      "Current number of browser contexts with a cached session store.",
	},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "allow", "redirect" or "loading"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events rejected by a full dispatcher shard.
// Label:
//   - type: the AuthEventType of the dropped event
var AuditEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped because the queue was full.",
	},
	[]string{"type"},
)

// TransitionListener records every session transition. It is registered on
// the session registry.
func TransitionListener(_ string, t domain.Transition) {
	SessionTransitionsTotal.WithLabelValues(string(t.From), string(t.To)).Inc()
	if errors.Is(t.Recovered, domain.ErrCorruptPersistedSession) {
		CorruptSessionsTotal.Inc()
	}
}

// AuditEventDropped is the dispatcher drop hook.
func AuditEventDropped(e domain.AuthEvent) {
	AuditEventsDroppedTotal.WithLabelValues(string(e.Type)).Inc()
}
