// Package customer manages the customer directory: registration, lookup and
// the durable account-block timestamp that admission consults.
package customer

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/mbd888/hispayment/internal/pagination"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidName      = errors.New("name contains invalid characters")
	ErrInvalidEmail     = errors.New("invalid email format")
)

// Customer is a registered payer.
type Customer struct {
	ID           string     `json:"customerId"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	PaymentToken string     `json:"paymentToken"`
	CreatedAt    time.Time  `json:"createdAt"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty"`
}

// IsBlocked reports whether the account block is still in force at now.
// A block that ends exactly at now is no longer in force.
func (c *Customer) IsBlocked(now time.Time) bool {
	return c.BlockedUntil != nil && c.BlockedUntil.After(now)
}

// Patch is a partial update. Only the account block is mutable.
type Patch struct {
	BlockedUntil *time.Time
	ClearBlock   bool
}

func (p Patch) apply(c *Customer) {
	switch {
	case p.ClearBlock:
		c.BlockedUntil = nil
	case p.BlockedUntil != nil:
		t := *p.BlockedUntil
		c.BlockedUntil = &t
	}
}

// Store persists customers.
type Store interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	Update(ctx context.Context, id string, patch Patch) (*Customer, error)
	// List returns up to limit customers ordered by (CreatedAt, ID) that sort
	// after the cursor. A nil cursor starts from the beginning.
	List(ctx context.Context, after *pagination.Cursor, limit int) ([]*Customer, error)
}

// sortKey orders customers for listing.
func sortKey(c *Customer) (time.Time, string) { return c.CreatedAt, c.ID }

// page filters an unordered set down to one listing page.
func page(all []*Customer, after *pagination.Cursor, limit int) []*Customer {
	slices.SortFunc(all, func(a, b *Customer) int {
		return pagination.Compare(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	var out []*Customer
	for _, c := range all {
		if len(out) >= limit {
			break
		}
		if after.After(c.CreatedAt, c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// CreateRequest contains the parameters for registering a customer.
type CreateRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PaymentToken string `json:"paymentToken"`
}

func clone(c *Customer) *Customer {
	cp := *c
	if c.BlockedUntil != nil {
		t := *c.BlockedUntil
		cp.BlockedUntil = &t
	}
	return &cp
}
