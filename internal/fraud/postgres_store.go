package fraud

import (
	"context"
	"database/sql"
)

// PostgresStore persists alerts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed alert store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the fraud_alerts table.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS fraud_alerts (
			seq               BIGSERIAL UNIQUE,
			id                VARCHAR(64) PRIMARY KEY,
			customer_id       VARCHAR(36) NOT NULL,
			transaction_count INTEGER NOT NULL,
			time_window       VARCHAR(64) NOT NULL,
			blocked_until     TIMESTAMPTZ NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_fraud_alerts_customer ON fraud_alerts(customer_id, seq);
	`)
	return err
}

func (p *PostgresStore) Append(ctx context.Context, alert *Alert) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO fraud_alerts (id, customer_id, transaction_count, time_window, blocked_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, alert.ID, alert.CustomerID, alert.TransactionCount, alert.TimeWindow, alert.BlockedUntil, alert.CreatedAt)
	return err
}

func (p *PostgresStore) ListByCustomer(ctx context.Context, customerID string) ([]*Alert, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, customer_id, transaction_count, time_window, blocked_until, created_at
		FROM fraud_alerts WHERE customer_id = $1 ORDER BY seq ASC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]*Alert, 0)
	for rows.Next() {
		a := &Alert{}
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.TransactionCount, &a.TimeWindow, &a.BlockedUntil, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.BlockedUntil = a.BlockedUntil.UTC()
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ Store = (*PostgresStore)(nil)
