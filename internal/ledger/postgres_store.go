package ledger

import (
	"context"
	"database/sql"
)

// PostgresStore implements Store with PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed ledger store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the transactions table. seq preserves insertion order
// independently of timestamp ties.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			seq             BIGSERIAL UNIQUE,
			id              VARCHAR(64) PRIMARY KEY,
			customer_id     VARCHAR(36) NOT NULL,
			amount          NUMERIC NOT NULL,
			currency        TEXT NOT NULL,
			status          VARCHAR(16) NOT NULL,
			error_message   TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT chk_amount_positive CHECK (amount > 0)
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id, seq);
	`)
	return err
}

func (p *PostgresStore) Append(ctx context.Context, tx *Transaction) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO transactions (id, customer_id, amount, currency, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, tx.ID, tx.CustomerID, tx.Amount.String(), tx.Currency, string(tx.Status), nullString(tx.ErrorMessage), tx.CreatedAt)
	return err
}

func (p *PostgresStore) ListByCustomer(ctx context.Context, customerID string) ([]*Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, customer_id, amount, currency, status, error_message, created_at
		FROM transactions WHERE customer_id = $1 ORDER BY seq ASC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]*Transaction, 0)
	for rows.Next() {
		tx := &Transaction{}
		var status string
		var errMsg sql.NullString
		if err := rows.Scan(&tx.ID, &tx.CustomerID, &tx.Amount, &tx.Currency, &status, &errMsg, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.Status = Status(status)
		tx.ErrorMessage = errMsg.String
		tx.CreatedAt = tx.CreatedAt.UTC()
		out = append(out, tx)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Store = (*PostgresStore)(nil)
