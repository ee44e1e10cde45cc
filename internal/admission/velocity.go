package admission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbd888/hispayment/internal/clock"
	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/idgen"
)

// VelocityDetector counts a customer's recent ledger entries and blocks the
// account when the count reaches the threshold.
type VelocityDetector struct {
	customers CustomerDirectory
	ledger    TransactionLedger
	alerts    AlertRecorder
	clock     clock.Clock
	window    time.Duration
	threshold int
	logger    *slog.Logger
}

// NewVelocityDetector creates a detector that trips when threshold or more
// transactions fall inside the trailing window. The block it imposes lasts
// for the same window.
func NewVelocityDetector(customers CustomerDirectory, l TransactionLedger, alerts AlertRecorder, window time.Duration, threshold int, clk clock.Clock, logger *slog.Logger) *VelocityDetector {
	return &VelocityDetector{
		customers: customers,
		ledger:    l,
		alerts:    alerts,
		clock:     clk,
		window:    window,
		threshold: threshold,
		logger:    logger,
	}
}

// Evaluate returns a non-nil *RateLimitedError when the detector trips. In
// that case the block and the alert are already persisted.
func (d *VelocityDetector) Evaluate(ctx context.Context, customerID string) (*RateLimitedError, error) {
	now := d.clock.Now()
	count, err := d.ledger.CountSince(ctx, customerID, now.Add(-d.window))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent transactions: %w", err)
	}
	if count < d.threshold {
		return nil, nil
	}

	blockedUntil := now.Add(d.window).UTC()
	if _, err := d.customers.Block(ctx, customerID, blockedUntil); err != nil {
		return nil, fmt.Errorf("failed to block customer: %w", err)
	}

	alert := &fraud.Alert{
		ID:               idgen.WithPrefix(idgen.PrefixFraudAlert),
		CustomerID:       customerID,
		TransactionCount: count + 1,
		TimeWindow:       fraud.WindowLabel(d.window),
		CreatedAt:        now.UTC(),
		BlockedUntil:     blockedUntil,
	}
	if err := d.alerts.Append(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to record fraud alert: %w", err)
	}
	FraudAlertsTotal.Inc()

	d.logger.Warn("velocity threshold exceeded, account blocked",
		"customer_id", customerID,
		"transaction_count", alert.TransactionCount,
		"window", alert.TimeWindow,
		"blocked_until", blockedUntil,
		"alert_id", alert.ID,
	)

	return &RateLimitedError{
		CustomerID:       customerID,
		BlockedUntil:     blockedUntil,
		TransactionCount: alert.TransactionCount,
		AlertRecorded:    true,
		AlertID:          alert.ID,
		Alert:            alert,
	}, nil
}
