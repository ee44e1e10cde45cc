package customer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mbd888/hispayment/internal/pagination"
)

// PostgresStore persists customers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed customer store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the customers table.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS customers (
			id              VARCHAR(36) PRIMARY KEY,
			first_name      VARCHAR(256) NOT NULL,
			last_name       VARCHAR(256) NOT NULL,
			email           VARCHAR(256) NOT NULL,
			payment_token   VARCHAR(256) NOT NULL,
			blocked_until   TIMESTAMPTZ,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_customers_created ON customers(created_at);
	`)
	return err
}

func (p *PostgresStore) Create(ctx context.Context, c *Customer) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO customers (id, first_name, last_name, email, payment_token, blocked_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.FirstName, c.LastName, c.Email, c.PaymentToken, nullTime(c.BlockedUntil), c.CreatedAt)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Customer, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, payment_token, blocked_until, created_at
		FROM customers WHERE id = $1
	`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (p *PostgresStore) Update(ctx context.Context, id string, patch Patch) (*Customer, error) {
	var (
		res sql.Result
		err error
	)
	switch {
	case patch.ClearBlock:
		res, err = p.db.ExecContext(ctx, `UPDATE customers SET blocked_until = NULL WHERE id = $1`, id)
	case patch.BlockedUntil != nil:
		res, err = p.db.ExecContext(ctx, `UPDATE customers SET blocked_until = $2 WHERE id = $1`, id, *patch.BlockedUntil)
	default:
		return p.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrCustomerNotFound
	}
	return p.Get(ctx, id)
}

func (p *PostgresStore) List(ctx context.Context, after *pagination.Cursor, limit int) ([]*Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, payment_token, blocked_until, created_at
		FROM customers ORDER BY created_at ASC, id ASC LIMIT $1`
	args := []any{limit}
	if after != nil {
		query = `
		SELECT id, first_name, last_name, email, payment_token, blocked_until, created_at
		FROM customers WHERE (created_at, id) > ($2, $3)
		ORDER BY created_at ASC, id ASC LIMIT $1`
		args = append(args, after.CreatedAt, after.ID)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(s scanner) (*Customer, error) {
	c := &Customer{}
	var blocked sql.NullTime
	if err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PaymentToken, &blocked, &c.CreatedAt); err != nil {
		return nil, err
	}
	if blocked.Valid {
		t := blocked.Time.UTC()
		c.BlockedUntil = &t
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ Store = (*PostgresStore)(nil)
