// Package ledger is the append-only transaction record. Admission appends to
// it and the velocity detector counts recent entries from it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// Status is the settlement status of a transaction.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Transaction is an immutable ledger record.
type Transaction struct {
	ID           string          `json:"transactionId"`
	CustomerID   string          `json:"customerId"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       Status          `json:"status"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"timestamp"`
}

// Store persists transactions. ListByCustomer returns records in insertion
// order.
type Store interface {
	Append(ctx context.Context, tx *Transaction) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Transaction, error)
}

// Ledger wraps a Store with validation and metrics.
type Ledger struct {
	store  Store
	logger *slog.Logger
}

// New creates a ledger over store.
func New(store Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, logger: logger}
}

// Record appends tx.
func (l *Ledger) Record(ctx context.Context, tx *Transaction) (err error) {
	defer observeOp("append")(&err)

	if tx.ID == "" || tx.CustomerID == "" || tx.Currency == "" {
		return fmt.Errorf("%w: id, customer and currency are required", ErrInvalidTransaction)
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if tx.Status == "" {
		tx.Status = StatusSuccess
	}

	if err := l.store.Append(ctx, tx); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	TransactionsRecorded.WithLabelValues(tx.Currency, string(tx.Status)).Inc()
	l.logger.Debug("transaction recorded", "transaction_id", tx.ID, "customer_id", tx.CustomerID)
	return nil
}

// History returns every transaction for a customer in insertion order.
func (l *Ledger) History(ctx context.Context, customerID string) (txs []*Transaction, err error) {
	defer observeOp("list")(&err)
	return l.store.ListByCustomer(ctx, customerID)
}

// CountSince counts a customer's transactions created strictly after since.
func (l *Ledger) CountSince(ctx context.Context, customerID string, since time.Time) (n int, err error) {
	defer observeOp("count_window")(&err)

	txs, err := l.store.ListByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	for _, tx := range txs {
		if tx.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}
