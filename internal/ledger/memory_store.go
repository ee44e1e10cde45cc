package ledger

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory ledger store for demo/development mode.
type MemoryStore struct {
	entries    []*Transaction
	byCustomer map[string][]int
	mu         sync.RWMutex
}

// NewMemoryStore creates a new in-memory ledger store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byCustomer: make(map[string][]int)}
}

func (m *MemoryStore) Append(ctx context.Context, tx *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *tx
	m.entries = append(m.entries, &cp)
	m.byCustomer[tx.CustomerID] = append(m.byCustomer[tx.CustomerID], len(m.entries)-1)
	return nil
}

func (m *MemoryStore) ListByCustomer(ctx context.Context, customerID string) ([]*Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.byCustomer[customerID]
	out := make([]*Transaction, 0, len(idx))
	for _, i := range idx {
		cp := *m.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
