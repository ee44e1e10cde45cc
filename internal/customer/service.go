package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mbd888/hispayment/internal/clock"
	"github.com/mbd888/hispayment/internal/idgen"
	"github.com/mbd888/hispayment/internal/pagination"
	"github.com/mbd888/hispayment/internal/validation"
)

// Service implements customer registration and block bookkeeping.
type Service struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a new customer service.
func NewService(store Store, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, clock: clk, logger: logger}
}

// Create validates and registers a new customer. The email is stored
// lower-cased.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	// Names are checked as submitted: a whitespace-only name was supplied,
	// so it is invalid rather than missing.
	req.Email = validation.SanitizeString(req.Email, validation.MaxStringLength)
	req.PaymentToken = validation.SanitizeString(req.PaymentToken, validation.MaxStringLength)
	if errs := validation.Validate(
		validation.Present("firstName", req.FirstName),
		validation.Present("lastName", req.LastName),
		validation.Required("email", req.Email),
		validation.Required("paymentToken", req.PaymentToken),
	); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, errs.Error())
	}
	if errs := validation.Validate(
		validation.ValidName("firstName", req.FirstName),
		validation.ValidName("lastName", req.LastName),
	); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidName, errs.Error())
	}
	req.FirstName = validation.SanitizeString(req.FirstName, validation.MaxStringLength)
	req.LastName = validation.SanitizeString(req.LastName, validation.MaxStringLength)
	if !validation.IsValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	c := &Customer{
		ID:           idgen.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(req.Email),
		PaymentToken: req.PaymentToken,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer registered", "customer_id", c.ID)
	return c, nil
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	return s.store.Get(ctx, id)
}

// Page is one slice of the customer listing.
type Page struct {
	Customers  []*Customer
	NextCursor string
	HasMore    bool
}

// List returns up to limit customers, oldest first, starting after cursor.
func (s *Service) List(ctx context.Context, cursor string, limit int) (*Page, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	after, err := pagination.Decode(cursor)
	if err != nil {
		return nil, err
	}

	items, err := s.store.List(ctx, after, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	items, next, more := pagination.ComputePage(items, limit, sortKey)
	return &Page{Customers: items, NextCursor: next, HasMore: more}, nil
}

// Block records an account block lasting until the given instant.
func (s *Service) Block(ctx context.Context, id string, until time.Time) (*Customer, error) {
	until = until.UTC()
	c, err := s.store.Update(ctx, id, Patch{BlockedUntil: &until})
	if err != nil {
		return nil, err
	}
	s.logger.Warn("customer blocked", "customer_id", id, "blocked_until", until)
	return c, nil
}

// ClearBlock removes an expired or revoked account block.
func (s *Service) ClearBlock(ctx context.Context, id string) (*Customer, error) {
	c, err := s.store.Update(ctx, id, Patch{ClearBlock: true})
	if err != nil {
		return nil, err
	}
	s.logger.Info("customer block cleared", "customer_id", id)
	return c, nil
}
