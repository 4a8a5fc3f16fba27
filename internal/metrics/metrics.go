// Package metrics defines all custom Prometheus metrics for the places
// client. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at
// package init and are exposed on the debug listener in watch mode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "places_client"

// FetchesTotal counts feed fetch attempts.
// Labels:
//   - feed: collection name (e.g. "places", "places:user:<name>")
//   - outcome: "ok", "empty", "api_error", "transport_error"
var FetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Total number of feed fetch attempts, by feed and outcome.",
	},
	[]string{"feed", "outcome"},
)

// FetchDuration measures how long a single fetch takes end-to-end.
var FetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of a feed fetch from request to store write.",
		Buckets:   prometheus.DefBuckets,
	},
)

// StaleCompletionsTotal counts fetch completions discarded because a newer
// fetch had already been applied, or because the fetcher was closed.
// Label:
//   - reason: "outdated" or "closed"
var StaleCompletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_completions_total",
		Help:      "Total number of fetch completions discarded without a store write.",
	},
	[]string{"reason"},
)

// AuthAttemptsTotal counts login and signup attempts.
// Labels:
//   - flow: "login" or "signup"
//   - outcome: "ok", "invalid_input", "api_error", "transport_error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by flow and outcome.",
	},
	[]string{"flow", "outcome"},
)

// SessionRestoresTotal counts session restore attempts at startup.
// Label:
//   - result: "restored", "absent", "malformed", "expired"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of durable session restore attempts, by result.",
	},
	[]string{"result"},
)
