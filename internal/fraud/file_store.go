package fraud

import (
	"context"
	"path/filepath"

	"github.com/mbd888/hispayment/internal/jsonfile"
)

// FileName is the alert file inside the data directory.
const FileName = "fraud_alerts.json"

// FileStore keeps alerts in a JSON array on disk.
type FileStore struct {
	file *jsonfile.Collection[Alert]
}

// NewFileStore opens (or creates) dataDir/fraud_alerts.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	f, err := jsonfile.Open[Alert](filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, err
	}
	return &FileStore{file: f}, nil
}

func (s *FileStore) Append(ctx context.Context, alert *Alert) error {
	return s.file.Append(*alert)
}

func (s *FileStore) ListByCustomer(ctx context.Context, customerID string) ([]*Alert, error) {
	all, err := s.file.All()
	if err != nil {
		return nil, err
	}
	out := make([]*Alert, 0)
	for i := range all {
		if all[i].CustomerID == customerID {
			out = append(out, &all[i])
		}
	}
	return out, nil
}

var _ Store = (*FileStore)(nil)
