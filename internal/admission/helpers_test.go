package admission

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mbd888/hispayment/internal/clock"
	"github.com/mbd888/hispayment/internal/customer"
	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingEmitter struct {
	mu       sync.Mutex
	admitted []*ledger.Transaction
	rejected []Outcome
	alerts   []*fraud.Alert
}

func (r *recordingEmitter) TransactionAdmitted(tx *ledger.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admitted = append(r.admitted, tx)
}

func (r *recordingEmitter) TransactionRejected(customerID string, outcome Outcome, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, outcome)
}

func (r *recordingEmitter) FraudAlertRaised(alert *fraud.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
}

type harness struct {
	clock     *clock.Manual
	customers *customer.MemoryStore
	directory *customer.Service
	ledger    *ledger.Ledger
	alerts    *fraud.MemoryStore
	events    *recordingEmitter
	pipeline  *Pipeline
}

func newHarness(t *testing.T, customerIDs ...string) *harness {
	t.Helper()

	h := &harness{
		clock:     clock.NewManual(epoch),
		customers: customer.NewMemoryStore(),
		ledger:    ledger.New(ledger.NewMemoryStore(), discardLogger()),
		alerts:    fraud.NewMemoryStore(),
		events:    &recordingEmitter{},
	}
	for _, id := range customerIDs {
		require.NoError(t, h.customers.Create(context.Background(), &customer.Customer{ID: id, CreatedAt: epoch}))
	}
	h.directory = customer.NewService(h.customers, h.clock, discardLogger())
	h.pipeline = NewPipeline(h.directory, h.ledger, h.alerts, DefaultPolicy(),
		WithClock(h.clock),
		WithLogger(discardLogger()),
		WithEvents(h.events),
	)
	return h
}

func (h *harness) admit(t *testing.T, customerID, amount, currency string) *Decision {
	t.Helper()
	d, err := h.pipeline.Admit(context.Background(), Request{
		CustomerID: customerID,
		Amount:     decimal.RequireFromString(amount),
		Currency:   currency,
	})
	require.NoError(t, err)
	return d
}

// seed appends a transaction directly to the ledger at the given time.
func (h *harness) seed(t *testing.T, customerID string, at time.Time) {
	t.Helper()
	require.NoError(t, h.ledger.Record(context.Background(), &ledger.Transaction{
		ID:         "txn_seed_" + at.Format("150405.000000000"),
		CustomerID: customerID,
		Amount:     decimal.NewFromInt(1),
		Currency:   "USD",
		CreatedAt:  at,
	}))
}

func (h *harness) block(t *testing.T, customerID string, until time.Time) {
	t.Helper()
	_, err := h.customers.Update(context.Background(), customerID, customer.Patch{BlockedUntil: &until})
	require.NoError(t, err)
}
