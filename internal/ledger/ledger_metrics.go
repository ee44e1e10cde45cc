package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// OpDuration observes store round trips by operation and result.
	OpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hispayment",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation latency by operation and result.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"op", "result"},
	)

	// TransactionsRecorded counts appended transactions.
	TransactionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hispayment",
			Subsystem: "ledger",
			Name:      "transactions_recorded_total",
			Help:      "Transactions appended to the ledger by currency and status.",
		},
		[]string{"currency", "status"},
	)
)

func init() {
	prometheus.MustRegister(OpDuration, TransactionsRecorded)
}

// observeOp starts timing op. Defer the result with a pointer to the
// caller's named error: defer observeOp("append")(&err).
func observeOp(op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		result := "ok"
		if errp != nil && *errp != nil {
			result = "error"
		}
		OpDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
	}
}
