// Package metrics defines and registers all custom Prometheus metrics for the
// board API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "board"

// ── Access control metrics ────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the authentication or
// authorization gates.
// Label:
//   - reason: the error kind (e.g. "missing_credential", "expired_credential", "insufficient_role")
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by an access gate, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Post metrics ──────────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly submitted posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts submitted for moderation.",
	},
)

// ModerationDecisionsTotal counts moderation outcomes.
// Label:
//   - status: "approved", "rejected" or "conflict" when the post was already moderated
var ModerationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_decisions_total",
		Help:      "Total number of moderation decisions, by resulting status.",
	},
	[]string{"status"},
)

// FeedCacheRequestsTotal counts public feed cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var FeedCacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_cache_requests_total",
		Help:      "Total number of public feed cache lookups, by result.",
	},
	[]string{"result"},
)
