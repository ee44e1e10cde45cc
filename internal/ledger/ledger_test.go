package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTx(id, customerID string, amount string, at time.Time) *Transaction {
	return &Transaction{
		ID:         id,
		CustomerID: customerID,
		Amount:     decimal.RequireFromString(amount),
		Currency:   "USD",
		CreatedAt:  at,
	}
}

func TestLedger_RecordDefaultsStatus(t *testing.T) {
	l := New(NewMemoryStore(), nil)
	ctx := context.Background()

	tx := newTx("txn_1", "c1", "100", epoch)
	require.NoError(t, l.Record(ctx, tx))

	history, err := l.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, StatusSuccess, history[0].Status)
	assert.True(t, history[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestLedger_RecordRejectsInvalid(t *testing.T) {
	l := New(NewMemoryStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		tx   *Transaction
	}{
		{"zero amount", newTx("txn_1", "c1", "0", epoch)},
		{"negative amount", newTx("txn_2", "c1", "-5", epoch)},
		{"missing customer", newTx("txn_3", "", "5", epoch)},
		{"missing id", newTx("", "c1", "5", epoch)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, l.Record(ctx, tt.tx), ErrInvalidTransaction)
		})
	}
}

func TestLedger_HistoryInsertionOrder(t *testing.T) {
	l := New(NewMemoryStore(), nil)
	ctx := context.Background()

	// Later timestamp appended first; history keeps append order.
	require.NoError(t, l.Record(ctx, newTx("txn_b", "c1", "2", epoch.Add(time.Minute))))
	require.NoError(t, l.Record(ctx, newTx("txn_a", "c1", "1", epoch)))
	require.NoError(t, l.Record(ctx, newTx("txn_other", "c2", "1", epoch)))

	history, err := l.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "txn_b", history[0].ID)
	assert.Equal(t, "txn_a", history[1].ID)

	empty, err := l.History(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLedger_CountSince(t *testing.T) {
	l := New(NewMemoryStore(), nil)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, newTx("txn_1", "c1", "1", epoch)))
	require.NoError(t, l.Record(ctx, newTx("txn_2", "c1", "2", epoch.Add(time.Second))))
	require.NoError(t, l.Record(ctx, newTx("txn_3", "c1", "3", epoch.Add(2*time.Second))))

	n, err := l.CountSince(ctx, "c1", epoch.Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Boundary is exclusive.
	n, err = l.CountSince(ctx, "c1", epoch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = l.CountSince(ctx, "c2", epoch.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, newTx("txn_1", "c1", "1", epoch)))

	list, err := store.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	list[0].Currency = "EUR"

	list, err = store.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "USD", list[0].Currency)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, newTx("txn_1", "c1", "100.50", epoch)))
	require.NoError(t, store.Append(ctx, newTx("txn_2", "c2", "7", epoch)))
	require.NoError(t, store.Append(ctx, newTx("txn_3", "c1", "3", epoch.Add(time.Second))))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	list, err := reopened.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "txn_1", list[0].ID)
	assert.Equal(t, "100.5", list[0].Amount.String())
	assert.True(t, epoch.Equal(list[0].CreatedAt))
	assert.Equal(t, "txn_3", list[1].ID)
}
