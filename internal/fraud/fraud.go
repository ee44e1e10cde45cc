// Package fraud stores the write-once alerts raised when a customer's
// transaction velocity trips the fraud detector.
package fraud

import (
	"context"
	"strconv"
	"time"
)

// Alert records a velocity trip and the block it produced.
type Alert struct {
	ID               string    `json:"alertId"`
	CustomerID       string    `json:"customerId"`
	TransactionCount int       `json:"transactionCount"`
	TimeWindow       string    `json:"timeWindow"`
	CreatedAt        time.Time `json:"timestamp"`
	BlockedUntil     time.Time `json:"blockedUntil"`
}

// Store persists alerts. Alerts are never updated or deleted.
type Store interface {
	Append(ctx context.Context, alert *Alert) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Alert, error)
}

// WindowLabel renders a window duration the way alerts describe it,
// e.g. "2 minutes", "90 seconds", "1 hour".
func WindowLabel(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d.Round(time.Second)/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
