// Package metrics defines and registers all custom Prometheus metrics for the
// user directory service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router mounts the exposition endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory"

// LoginsTotal counts successful logins.
// Label:
//   - kind: "interactive" (credentials) or "remembered" (silent cookie login)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by kind.",
	},
	[]string{"kind"},
)

// TokenRotationsTotal counts remember-me token rotations.
var TokenRotationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rotations_total",
		Help:      "Total number of remember-me tokens rotated on silent login.",
	},
)

// TheftEventsTotal counts detected token-theft signals (stale token presented
// for a known series, triggering invalidation of the user's lineages).
var TheftEventsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "theft_events_total",
		Help:      "Total number of remember-me token mismatches treated as theft.",
	},
)

// RegistrationsTotal counts users registered through the API.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of users registered.",
	},
)
