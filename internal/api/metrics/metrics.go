// Package metrics defines and registers all custom Prometheus metrics for the
// coffee catalog API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coffee_catalog"

// CoffeesCreatedTotal counts newly created catalog entries.
// Label:
//   - with_photo: "true" when the creation carried a photo upload
var CoffeesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "coffees_created_total",
		Help:      "Total number of coffees created.",
	},
	[]string{"with_photo"},
)

// RatingsSubmittedTotal counts rating submissions.
// Label:
//   - result: "ok", "invalid_value", "not_found", "conflict", "error"
var RatingsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_submitted_total",
		Help:      "Total number of rating submissions, by outcome.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts authorization outcomes across both gates.
// Label:
//   - decision: "allow", "deny_not_owner", "admission_denied", "unsupported_role"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by outcome.",
	},
	[]string{"decision"},
)

// PhotoUploadsTotal counts photo store writes from create/update operations.
// Label:
//   - result: "ok", "rejected", "error"
var PhotoUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_uploads_total",
		Help:      "Total number of photo uploads, by outcome.",
	},
	[]string{"result"},
)
