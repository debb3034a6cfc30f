// Package metrics defines and registers all custom Prometheus metrics for the
// clinic portal. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic_portal"

// LinkRequestsTotal counts sign-in link requests.
// Label:
//   - result: "accepted" (opaque success returned) or "invalid" (malformed email)
//
// Denied and sent requests are indistinguishable by design: the issuance path
// is silent, so only the log distinguishes them.
var LinkRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "link_requests_total",
		Help:      "Total number of sign-in link requests, by result.",
	},
	[]string{"result"},
)

// SignInsTotal counts magic-link callback outcomes.
// Label:
//   - result: "success", "denied", "invalid_link", or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in callback attempts, by result.",
	},
	[]string{"result"},
)

// InvitesTotal counts admin invitation calls.
// Labels:
//   - outcome: "created", "reactivated", or "unchanged"
//   - email_sent: "true" or "false"
var InvitesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invites_total",
		Help:      "Total number of doctor invitations, by outcome and email delivery result.",
	},
	[]string{"outcome", "email_sent"},
)

// RevokesTotal counts invitation revocations.
var RevokesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revokes_total",
		Help:      "Total number of doctor invitation revocations.",
	},
)
