// Package admission decides whether a transaction request may be written to
// the ledger. Every request walks the same fixed sequence:
//
//  1. Account block gate: a live block rejects, a stale block is cleared.
//  2. Duplicate window: an identical (customer, amount, currency) seen within
//     the duplicate window rejects.
//  3. Velocity detector: too many ledger entries in the trailing window
//     blocks the account, records a fraud alert and rejects.
//  4. The transaction is appended to the ledger.
//
// Each request ends in exactly one Outcome. Side effects of step 3 are kept
// even though the triggering transaction is never written.
package admission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mbd888/hispayment/internal/customer"
	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/ledger"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrInvalidRequest       = errors.New("invalid transaction request")
)

// Outcome is the terminal state of one admission attempt.
type Outcome string

const (
	OutcomeAdmitted          Outcome = "admitted"
	OutcomeBlocked           Outcome = "blocked"
	OutcomeDuplicateRejected Outcome = "duplicate_rejected"
	OutcomeRateLimited       Outcome = "rate_limited"
)

// Request is a transaction submission.
type Request struct {
	CustomerID string
	Amount     decimal.Decimal
	Currency   string
}

// Fingerprint identifies a request for duplicate suppression. Amounts are
// compared in canonical decimal form so "100" and "100.00" match.
func (r Request) Fingerprint() string {
	return r.CustomerID + "|" + r.Amount.String() + "|" + r.Currency
}

// AccountBlockedError rejects a request while the account block is live.
type AccountBlockedError struct {
	CustomerID       string
	RemainingSeconds int64
	BlockedUntil     time.Time
}

func (e *AccountBlockedError) Error() string {
	return fmt.Sprintf("account temporarily blocked, try again in %d seconds", e.RemainingSeconds)
}

// RateLimitedError rejects a request that tripped the velocity detector.
type RateLimitedError struct {
	CustomerID       string
	BlockedUntil     time.Time
	TransactionCount int
	AlertRecorded    bool
	AlertID          string
	Alert            *fraud.Alert
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many transactions, account blocked until %s", e.BlockedUntil.UTC().Format(time.RFC3339))
}

// Decision is the result of Admit. Exactly one of Transaction, Blocked or
// RateLimited is set for Admitted, Blocked and RateLimited outcomes; a
// DuplicateRejected decision carries no extra state.
type Decision struct {
	Outcome     Outcome
	Transaction *ledger.Transaction
	Blocked     *AccountBlockedError
	RateLimited *RateLimitedError
}

// Err returns the rejection as an error, or nil when admitted.
func (d *Decision) Err() error {
	switch d.Outcome {
	case OutcomeBlocked:
		return d.Blocked
	case OutcomeDuplicateRejected:
		return ErrDuplicateTransaction
	case OutcomeRateLimited:
		return d.RateLimited
	default:
		return nil
	}
}

// CustomerDirectory reads customers and sets or clears their account block.
// *customer.Service satisfies it.
type CustomerDirectory interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
	Block(ctx context.Context, id string, until time.Time) (*customer.Customer, error)
	ClearBlock(ctx context.Context, id string) (*customer.Customer, error)
}

// TransactionLedger appends transactions and counts recent ones.
type TransactionLedger interface {
	Record(ctx context.Context, tx *ledger.Transaction) error
	CountSince(ctx context.Context, customerID string, since time.Time) (int, error)
}

// AlertRecorder persists fraud alerts.
type AlertRecorder interface {
	Append(ctx context.Context, alert *fraud.Alert) error
}

// EventEmitter receives admission events. Implementations must not block.
type EventEmitter interface {
	TransactionAdmitted(tx *ledger.Transaction)
	TransactionRejected(customerID string, outcome Outcome, reason string)
	FraudAlertRaised(alert *fraud.Alert)
}

func normalize(req Request) Request {
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.Currency = strings.TrimSpace(req.Currency)
	return req
}
