package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"instapay-callback/internal/domain/model"
)

func init() {
	register(
		CallbackRequests,
		CallbackDuration,
		InwardRejections,
		DuplicateClaims,
	)
}

var (
	// Count of callbacks grouped by flow and outcome.
	// flow: get_token|service_responses|service_requests|unknown
	// outcome: token_issued|success|accepted|rejected|error|fatal|bad_request|unauthorized|method_not_allowed
	CallbackRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callback_requests_total",
			Help: "Count of inbound gateway callbacks by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	CallbackDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "callback_duration_seconds",
			Help:    "Duration of callback handling in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"flow"},
	)

	// Inward rejections by scheme reason code (bounded by the taxonomy).
	InwardRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inward_rejections_total",
			Help: "Inward transactions rejected, by reason code.",
		},
		[]string{"reason_code"},
	)

	// result: claimed|duplicate|error
	DuplicateClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_claims_total",
			Help: "Instruction id claims by result.",
		},
		[]string{"result"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func ObserveCallback(flow, outcome string, seconds float64) {
	if flow == "" {
		flow = "unknown"
	}
	CallbackRequests.WithLabelValues(norm(flow), norm(outcome)).Inc()
	CallbackDuration.WithLabelValues(norm(flow)).Observe(seconds)
}

// IncInwardRejection counts a rejection by reason code. Codes outside the
// taxonomy share the "other" label.
func IncInwardRejection(reasonCode string) {
	code := model.ReasonCode(strings.ToUpper(strings.TrimSpace(reasonCode)))
	label := string(code)
	if !code.Known() {
		label = "other"
	}
	InwardRejections.WithLabelValues(label).Inc()
}

func ObserveDuplicateClaim(result string) {
	DuplicateClaims.WithLabelValues(norm(result)).Inc()
}
