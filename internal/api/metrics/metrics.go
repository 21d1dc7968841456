// Package metrics defines every Prometheus metric the SMM client exports.
// Metrics register with the default registry on package init; the agent
// exposes them on /metrics, the CLI simply never scrapes them.
package metrics

import (
	"strings"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smm_client"

// ── Backend API ───────────────────────────────────────────────────────────────

// APIRequestsTotal counts calls to the SMM backend.
// Labels:
//   - method:   HTTP verb
//   - endpoint: endpoint template with ids collapsed (e.g. "orders/:id/status/")
//   - code:     HTTP status, or "error" for transport failures
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of requests sent to the SMM backend.",
	},
	[]string{"method", "endpoint", "code"},
)

// APIRequestDuration measures backend round-trip time.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Round-trip duration of requests to the SMM backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "endpoint"},
)

// SessionExpiredTotal counts 401 answers that cleared the stored session.
var SessionExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expired_total",
		Help:      "Total number of sessions cleared after a 401 from the backend.",
	},
)

// ── Payments ──────────────────────────────────────────────────────────────────

// PaymentPollsTotal counts finished payment polls.
// Label:
//   - outcome: paid, cancel, fail, expired (cap reached), cancelled, error
var PaymentPollsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_polls_total",
		Help:      "Total number of payment status polls, by outcome.",
	},
	[]string{"outcome"},
)

// ActiveWatches is the number of payment watches currently running in the agent.
var ActiveWatches = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_watches",
		Help:      "Current number of running payment watches.",
	},
)

// BonusQuotesTotal counts bonus quote requests.
// Label:
//   - result: sent, below_threshold, superseded, error
var BonusQuotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bonus_quotes_total",
		Help:      "Total number of bonus quote requests, by result.",
	},
	[]string{"result"},
)

// EndpointLabel collapses id-like path segments so label cardinality stays
// bounded: "orders/1842/status/" becomes "orders/:id/status/".
func EndpointLabel(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if looksLikeID(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

func looksLikeID(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	// plain numbers, uuids and opaque tokens like "ord_8f3k2"
	return digits == len(s) || (digits > 0 && len(s) >= 8)
}

// Observer records core service outcomes into the metrics above.
type Observer struct{}

func (Observer) PaymentPolled(outcome string) {
	PaymentPollsTotal.WithLabelValues(outcome).Inc()
}

func (Observer) BonusQuoted(result string) {
	BonusQuotesTotal.WithLabelValues(result).Inc()
}
