package admission

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mbd888/hispayment/internal/clock"
	"github.com/mbd888/hispayment/internal/customer"
)

// Gate enforces the account block stored on the customer record.
type Gate struct {
	customers CustomerDirectory
	clock     clock.Clock
	logger    *slog.Logger
}

// NewGate creates an account block gate.
func NewGate(customers CustomerDirectory, clk clock.Clock, logger *slog.Logger) *Gate {
	return &Gate{customers: customers, clock: clk, logger: logger}
}

// Check loads the customer and returns a non-nil *AccountBlockedError while
// the block is live. A stale block is cleared and persisted before Check
// returns, so callers always observe the cleared record.
func (g *Gate) Check(ctx context.Context, customerID string) (*customer.Customer, *AccountBlockedError, error) {
	c, err := g.customers.Get(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if c.BlockedUntil == nil {
		return c, nil, nil
	}

	now := g.clock.Now()
	if c.IsBlocked(now) {
		remaining := c.BlockedUntil.Sub(now)
		return c, &AccountBlockedError{
			CustomerID:       customerID,
			RemainingSeconds: int64(math.Ceil(remaining.Seconds())),
			BlockedUntil:     *c.BlockedUntil,
		}, nil
	}

	expired := *c.BlockedUntil
	c, err = g.customers.ClearBlock(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to clear expired block: %w", err)
	}
	AccountBlocksCleared.Inc()
	g.logger.Debug("expired account block cleared", "customer_id", customerID, "blocked_until", expired)
	return c, nil, nil
}
