package customer

import (
	"context"
	"path/filepath"

	"github.com/mbd888/hispayment/internal/jsonfile"
	"github.com/mbd888/hispayment/internal/pagination"
)

// FileName is the customer file inside the data directory.
const FileName = "customers.json"

// FileStore keeps customers in a JSON array on disk.
type FileStore struct {
	file *jsonfile.Collection[Customer]
}

// NewFileStore opens (or creates) dataDir/customers.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	f, err := jsonfile.Open[Customer](filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, err
	}
	return &FileStore{file: f}, nil
}

func (s *FileStore) Create(ctx context.Context, c *Customer) error {
	return s.file.Append(*clone(c))
}

func (s *FileStore) Get(ctx context.Context, id string) (*Customer, error) {
	all, err := s.file.All()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *FileStore) Update(ctx context.Context, id string, patch Patch) (*Customer, error) {
	var updated *Customer
	err := s.file.Mutate(func(all []Customer) ([]Customer, error) {
		for i := range all {
			if all[i].ID == id {
				patch.apply(&all[i])
				updated = clone(&all[i])
				return all, nil
			}
		}
		return nil, ErrCustomerNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *FileStore) List(ctx context.Context, after *pagination.Cursor, limit int) ([]*Customer, error) {
	all, err := s.file.All()
	if err != nil {
		return nil, err
	}
	ptrs := make([]*Customer, len(all))
	for i := range all {
		ptrs[i] = &all[i]
	}
	return page(ptrs, after, limit), nil
}

var _ Store = (*FileStore)(nil)
