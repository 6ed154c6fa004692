// Package metrics defines all custom Prometheus metrics for the Dawerha API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register themselves with the default registry at init time; the
// router exposes them on /metrics via echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dawerha"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - user_type: "company" or "admin"
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by user type and outcome.",
	},
	[]string{"user_type", "outcome"},
)

// TokenValidationsTotal counts bearer-token validations performed against the
// session store.
// Label:
//   - result: "valid", "invalid", or "error" (store failure, read as invalid)
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of session token validations, by result.",
	},
	[]string{"result"},
)

// SessionsPurgedTotal counts expired session rows removed by the background
// sweep.
var SessionsPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of expired session rows purged.",
	},
)

// ── Game metrics ──────────────────────────────────────────────────────────────

// SpinsTotal counts wheel spins.
// Label:
//   - outcome: "won" or "rejected" (inactive window, throttle, validation)
var SpinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "spins_total",
		Help:      "Total number of wheel spin attempts, by outcome.",
	},
	[]string{"outcome"},
)

// CompaniesRegisteredTotal counts new company signups, by venue type.
var CompaniesRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "companies_registered_total",
		Help:      "Total number of company accounts registered, by type.",
	},
	[]string{"type"},
)

// ── Influencer metrics ────────────────────────────────────────────────────────

// InfluencersRegisteredTotal counts new influencer signups, by platform.
var InfluencersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "influencers_registered_total",
		Help:      "Total number of influencer profiles registered, by platform.",
	},
	[]string{"platform"},
)

// DrawsTotal counts giveaway winner draws.
// Label:
//   - outcome: "won" or "rejected" (inactive profile, no participants)
var DrawsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draws_total",
		Help:      "Total number of giveaway draw attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Scheduler metrics ─────────────────────────────────────────────────────────

// ScheduleActivationsTotal counts companies activated by the weekly schedule
// sweep.
var ScheduleActivationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schedule_activations_total",
		Help:      "Total number of companies activated by the schedule sweep.",
	},
)

// SweepDuration measures one full scheduler pass (schedule sweep plus
// session purge).
var SweepDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of one background scheduler pass.",
		Buckets:   prometheus.DefBuckets,
	},
)
