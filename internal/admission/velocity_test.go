package admission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLedger struct{ err error }

func (f failingLedger) Record(ctx context.Context, tx *ledger.Transaction) error { return f.err }
func (f failingLedger) CountSince(ctx context.Context, customerID string, since time.Time) (int, error) {
	return 0, f.err
}

type failingAlerts struct{ err error }

func (f failingAlerts) Append(ctx context.Context, alert *fraud.Alert) error { return f.err }

func newDetector(h *harness) *VelocityDetector {
	return NewVelocityDetector(h.directory, h.ledger, h.alerts, 120*time.Second, 5, h.clock, discardLogger())
}

func TestVelocity_BelowThresholdPasses(t *testing.T) {
	h := newHarness(t, "c1")
	for i := 0; i < 4; i++ {
		h.seed(t, "c1", epoch.Add(-time.Duration(i)*time.Second))
	}

	limited, err := newDetector(h).Evaluate(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, limited)
}

func TestVelocity_OldTransactionsIgnored(t *testing.T) {
	h := newHarness(t, "c1")
	for i := 0; i < 10; i++ {
		h.seed(t, "c1", epoch.Add(-120*time.Second-time.Duration(i)*time.Second))
	}

	limited, err := newDetector(h).Evaluate(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, limited, "entries exactly at or beyond the window edge are not counted")
}

func TestVelocity_TripsAtThreshold(t *testing.T) {
	h := newHarness(t, "c1")
	for i := 0; i < 5; i++ {
		h.seed(t, "c1", epoch.Add(-time.Duration(i*10)*time.Second))
	}
	ctx := context.Background()

	limited, err := newDetector(h).Evaluate(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, limited)

	wantUntil := epoch.Add(120 * time.Second)
	assert.True(t, wantUntil.Equal(limited.BlockedUntil))
	assert.Equal(t, 6, limited.TransactionCount)
	assert.True(t, limited.AlertRecorded)

	c, err := h.customers.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c.BlockedUntil)
	assert.True(t, wantUntil.Equal(*c.BlockedUntil))

	alerts, err := h.alerts.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, limited.AlertID, alerts[0].ID)
	assert.Equal(t, 6, alerts[0].TransactionCount)
	assert.Equal(t, "2 minutes", alerts[0].TimeWindow)
	assert.True(t, wantUntil.Equal(alerts[0].BlockedUntil))
}

func TestVelocity_LedgerFailurePropagates(t *testing.T) {
	h := newHarness(t, "c1")
	boom := errors.New("disk on fire")
	d := NewVelocityDetector(h.directory, failingLedger{err: boom}, h.alerts, time.Minute, 5, h.clock, discardLogger())

	_, err := d.Evaluate(context.Background(), "c1")
	assert.ErrorIs(t, err, boom)
}

func TestVelocity_AlertFailureKeepsBlock(t *testing.T) {
	h := newHarness(t, "c1")
	for i := 0; i < 5; i++ {
		h.seed(t, "c1", epoch.Add(-time.Duration(i)*time.Second))
	}
	boom := errors.New("alert store down")
	d := NewVelocityDetector(h.directory, h.ledger, failingAlerts{err: boom}, 120*time.Second, 5, h.clock, discardLogger())

	_, err := d.Evaluate(context.Background(), "c1")
	require.ErrorIs(t, err, boom)

	c, err := h.customers.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.NotNil(t, c.BlockedUntil, "no partial-state cleanup on storage failure")
}
