// Package metrics defines and registers the Prometheus metrics exposed on
// /metrics. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmanager"

// AuthAttemptsTotal counts registration and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "success" or the error code (e.g. "InvalidCredentials")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts.",
	},
	[]string{"op", "result"},
)

// GuardRejectionsTotal counts requests rejected by the access guard.
// Label:
//   - reason: "Unauthenticated", "TokenExpired" or "TokenMalformed"
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by the access guard.",
	},
	[]string{"reason"},
)

// TaskOperationsTotal counts owner-scoped task operations.
// Labels:
//   - op: "list", "create", "update" or "delete"
//   - result: "success" or the error code
var TaskOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_operations_total",
		Help:      "Total number of task operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// EventsPrunedTotal counts activity events removed by the retention job.
var EventsPrunedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_pruned_total",
		Help:      "Total number of activity events removed by retention.",
	},
)

// WebSocketClients tracks currently connected notification clients.
var WebSocketClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Current number of connected websocket clients.",
	},
)
