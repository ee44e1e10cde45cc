package customer

import (
	"context"
	"sync"

	"github.com/mbd888/hispayment/internal/pagination"
)

// MemoryStore is an in-memory customer store for demo/development mode.
type MemoryStore struct {
	customers map[string]*Customer
	mu        sync.RWMutex
}

// NewMemoryStore creates a new in-memory customer store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{customers: make(map[string]*Customer)}
}

func (m *MemoryStore) Create(ctx context.Context, c *Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.customers[c.ID] = clone(c)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return clone(c), nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, patch Patch) (*Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	patch.apply(c)
	return clone(c), nil
}

func (m *MemoryStore) List(ctx context.Context, after *pagination.Cursor, limit int) ([]*Customer, error) {
	m.mu.RLock()
	all := make([]*Customer, 0, len(m.customers))
	for _, c := range m.customers {
		all = append(all, clone(c))
	}
	m.mu.RUnlock()

	return page(all, after, limit), nil
}

var _ Store = (*MemoryStore)(nil)
