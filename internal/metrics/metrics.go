// Package metrics exposes the ledger counters scraped from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoansDisbursed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kikoba",
		Name:      "loans_disbursed_total",
		Help:      "Loans created.",
	})

	RepaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kikoba",
		Name:      "repayments_recorded_total",
		Help:      "Repayment ledger writes, by mode (replace or top_up).",
	}, []string{"mode"})

	LoansPaid = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kikoba",
		Name:      "loans_paid_total",
		Help:      "Loans that transitioned from active to paid.",
	})

	ContributionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kikoba",
		Name:      "contributions_recorded_total",
		Help:      "Monthly contribution writes.",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kikoba",
		Name:      "rate_limited_requests_total",
		Help:      "Write requests rejected with 429.",
	})
)

// RegisterWebSocketClients exposes the number of open websocket clients. Call it once.
func RegisterWebSocketClients(count func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "kikoba",
		Name:      "websocket_clients",
		Help:      "Open websocket connections across all groups.",
	}, func() float64 { return float64(count()) })
}
