package realtime

import (
	"github.com/mbd888/hispayment/internal/admission"
	"github.com/mbd888/hispayment/internal/clock"
	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/ledger"
)

// Rejection is the payload of a transaction_rejected event.
type Rejection struct {
	CustomerID string            `json:"customerId"`
	Outcome    admission.Outcome `json:"outcome"`
	Reason     string            `json:"reason"`
}

// Emitter publishes admission decisions to a Hub. Rejections carry no record
// of their own, so their events are stamped from the admission clock.
type Emitter struct {
	hub   *Hub
	clock clock.Clock
}

// NewEmitter returns an admission.EventEmitter backed by hub. clk should be
// the clock the pipeline runs on; nil means the wall clock.
func NewEmitter(hub *Hub, clk clock.Clock) *Emitter {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Emitter{hub: hub, clock: clk}
}

func (e *Emitter) TransactionAdmitted(tx *ledger.Transaction) {
	e.hub.Broadcast(&Event{
		Type:       EventTransactionAdmitted,
		Timestamp:  tx.CreatedAt,
		CustomerID: tx.CustomerID,
		Data:       tx,
	})
}

func (e *Emitter) TransactionRejected(customerID string, outcome admission.Outcome, reason string) {
	e.hub.Broadcast(&Event{
		Type:       EventTransactionRejected,
		Timestamp:  e.clock.Now().UTC(),
		CustomerID: customerID,
		Data:       Rejection{CustomerID: customerID, Outcome: outcome, Reason: reason},
	})
}

func (e *Emitter) FraudAlertRaised(alert *fraud.Alert) {
	e.hub.Broadcast(&Event{
		Type:       EventFraudAlert,
		Timestamp:  alert.CreatedAt,
		CustomerID: alert.CustomerID,
		Data:       alert,
	})
}

var _ admission.EventEmitter = (*Emitter)(nil)
