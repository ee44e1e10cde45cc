package ledger

import (
	"context"
	"path/filepath"

	"github.com/mbd888/hispayment/internal/jsonfile"
)

// FileName is the transaction file inside the data directory.
const FileName = "transactions.json"

// FileStore keeps transactions in a JSON array on disk.
type FileStore struct {
	file *jsonfile.Collection[Transaction]
}

// NewFileStore opens (or creates) dataDir/transactions.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	f, err := jsonfile.Open[Transaction](filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, err
	}
	return &FileStore{file: f}, nil
}

func (s *FileStore) Append(ctx context.Context, tx *Transaction) error {
	return s.file.Append(*tx)
}

func (s *FileStore) ListByCustomer(ctx context.Context, customerID string) ([]*Transaction, error) {
	all, err := s.file.All()
	if err != nil {
		return nil, err
	}
	out := make([]*Transaction, 0)
	for i := range all {
		if all[i].CustomerID == customerID {
			out = append(out, &all[i])
		}
	}
	return out, nil
}

var _ Store = (*FileStore)(nil)
