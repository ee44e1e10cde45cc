package admission

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AdmissionDecisions counts terminal admission outcomes.
	AdmissionDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hispayment",
			Name:      "admission_decisions_total",
			Help:      "Transaction admission decisions by outcome.",
		},
		[]string{"outcome"},
	)

	// AdmissionDuration observes end-to-end admission latency.
	AdmissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hispayment",
			Name:      "admission_duration_seconds",
			Help:      "Time spent evaluating a transaction request.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	// FraudAlertsTotal counts velocity trips.
	FraudAlertsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hispayment",
			Name:      "fraud_alerts_total",
			Help:      "Fraud alerts raised by the velocity detector.",
		},
	)

	// AccountBlocksCleared counts expired blocks cleared by the gate.
	AccountBlocksCleared = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hispayment",
			Name:      "account_blocks_cleared_total",
			Help:      "Expired account blocks cleared on observation.",
		},
	)

	// DuplicateWindowSize tracks fingerprints held by the duplicate window.
	DuplicateWindowSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hispayment",
			Name:      "duplicate_window_entries",
			Help:      "Fingerprints currently held by the duplicate window.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		AdmissionDecisions,
		AdmissionDuration,
		FraudAlertsTotal,
		AccountBlocksCleared,
		DuplicateWindowSize,
	)
}
