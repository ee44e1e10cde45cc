package realtime

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/hispayment/internal/admission"
	"github.com/mbd888/hispayment/internal/clock"
	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/ledger"
)

func TestEmitter_MapsDecisionsToEvents(t *testing.T) {
	h := runHub(t)
	c := attach(h, Subscription{AllEvents: true})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewManual(at.Add(time.Minute))
	em := NewEmitter(h, clk)

	em.TransactionAdmitted(&ledger.Transaction{ID: "txn_1", CustomerID: "cust-1", Amount: decimal.NewFromInt(10), Currency: "USD", CreatedAt: at})
	em.TransactionRejected("cust-1", admission.OutcomeDuplicateRejected, "duplicate transaction")
	em.FraudAlertRaised(&fraud.Alert{ID: "fa_1", CustomerID: "cust-1", CreatedAt: at})

	admitted := receive(t, c)
	assert.Equal(t, EventTransactionAdmitted, admitted.Type)
	assert.Equal(t, "cust-1", admitted.CustomerID)
	assert.True(t, admitted.Timestamp.Equal(at))

	rejected := receive(t, c)
	assert.Equal(t, EventTransactionRejected, rejected.Type)
	assert.True(t, rejected.Timestamp.Equal(clk.Now()), "rejections use the admission clock, got %v", rejected.Timestamp)
	data, ok := rejected.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "duplicate_rejected", data["outcome"])
	assert.Equal(t, "duplicate transaction", data["reason"])

	alert := receive(t, c)
	assert.Equal(t, EventFraudAlert, alert.Type)
}
