package admission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbd888/hispayment/internal/clock"
	"github.com/mbd888/hispayment/internal/idgen"
	"github.com/mbd888/hispayment/internal/ledger"
	"github.com/mbd888/hispayment/internal/logging"
	"github.com/mbd888/hispayment/internal/syncutil"
	"github.com/mbd888/hispayment/internal/traces"
	"github.com/mbd888/hispayment/internal/validation"
)

// Default policy values.
const (
	DefaultDuplicateWindow   = 5 * time.Second
	DefaultVelocityWindow    = 120 * time.Second
	DefaultVelocityThreshold = 5
)

// Policy holds the admission windows and threshold.
type Policy struct {
	DuplicateWindow   time.Duration
	VelocityWindow    time.Duration
	VelocityThreshold int
}

// DefaultPolicy returns the standard 5s / 120s / 5 policy.
func DefaultPolicy() Policy {
	return Policy{
		DuplicateWindow:   DefaultDuplicateWindow,
		VelocityWindow:    DefaultVelocityWindow,
		VelocityThreshold: DefaultVelocityThreshold,
	}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithEvents publishes admission events to e.
func WithEvents(e EventEmitter) Option {
	return func(p *Pipeline) { p.events = e }
}

// Pipeline runs the admission sequence for transaction requests.
type Pipeline struct {
	policy   Policy
	clock    clock.Clock
	logger   *slog.Logger
	events   EventEmitter
	locks    *syncutil.ContextShardedMutex
	ledger   TransactionLedger
	gate     *Gate
	window   *DuplicateWindow
	velocity *VelocityDetector
}

// NewPipeline wires the gate, duplicate window and velocity detector over the
// given collaborators.
func NewPipeline(customers CustomerDirectory, l TransactionLedger, alerts AlertRecorder, policy Policy, opts ...Option) *Pipeline {
	p := &Pipeline{
		policy: policy,
		clock:  clock.Real{},
		logger: slog.Default(),
		ledger: l,
		locks:  syncutil.NewContextShardedMutex(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.gate = NewGate(customers, p.clock, p.logger)
	p.window = NewDuplicateWindow(policy.DuplicateWindow, p.clock)
	p.velocity = NewVelocityDetector(customers, l, alerts, policy.VelocityWindow, policy.VelocityThreshold, p.clock, p.logger)
	return p
}

// Window exposes the duplicate window.
func (p *Pipeline) Window() *DuplicateWindow { return p.window }

// Policy returns the active policy.
func (p *Pipeline) Policy() Policy { return p.policy }

// Admit evaluates req. Rejections are reported through the returned
// Decision; the error is non-nil only for invalid requests, unknown
// customers, storage failures and context cancellation.
func (p *Pipeline) Admit(ctx context.Context, req Request) (*Decision, error) {
	start := time.Now()
	req = normalize(req)

	ctx, span := traces.StartSpan(ctx, "admission.Admit",
		traces.CustomerID(req.CustomerID),
		traces.Amount(req.Amount.String()),
		traces.Currency(req.Currency),
	)
	defer span.End()

	if errs := validation.Validate(
		validation.Required("customerId", req.CustomerID),
		validation.PositiveAmount("amount", req.Amount),
		validation.Required("currency", req.Currency),
		validation.MaxLength("currency", req.Currency, validation.MaxStringLength),
	); len(errs) > 0 {
		span.RecordError(errs)
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, errs)
	}

	ctx = logging.WithCustomerID(ctx, req.CustomerID)
	log := p.logger.With("customer_id", req.CustomerID)
	if rid := logging.RequestID(ctx); rid != "" {
		log = log.With("request_id", rid)
	}

	unlock, err := p.locks.LockContext(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	decision, err := p.evaluate(ctx, req)
	AdmissionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		log.Error("admission failed", "error", err)
		return nil, err
	}

	span.SetAttributes(traces.Outcome(string(decision.Outcome)))
	AdmissionDecisions.WithLabelValues(string(decision.Outcome)).Inc()
	p.publish(decision, req)

	if decision.Outcome == OutcomeAdmitted {
		span.SetAttributes(traces.TransactionID(decision.Transaction.ID))
		log.Info("transaction admitted", "transaction_id", decision.Transaction.ID)
	} else {
		log.Warn("transaction rejected", "outcome", decision.Outcome, "reason", decision.Err().Error())
	}
	return decision, nil
}

func (p *Pipeline) evaluate(ctx context.Context, req Request) (*Decision, error) {
	if _, blocked, err := p.gate.Check(ctx, req.CustomerID); err != nil {
		return nil, err
	} else if blocked != nil {
		return &Decision{Outcome: OutcomeBlocked, Blocked: blocked}, nil
	}

	if !p.window.Admit(req.Fingerprint()) {
		return &Decision{Outcome: OutcomeDuplicateRejected}, nil
	}

	limited, err := p.velocity.Evaluate(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if limited != nil {
		return &Decision{Outcome: OutcomeRateLimited, RateLimited: limited}, nil
	}

	tx := &ledger.Transaction{
		ID:         idgen.WithPrefix(idgen.PrefixTransaction),
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Status:     ledger.StatusSuccess,
		CreatedAt:  p.clock.Now().UTC(),
	}
	if err := p.ledger.Record(ctx, tx); err != nil {
		return nil, err
	}
	return &Decision{Outcome: OutcomeAdmitted, Transaction: tx}, nil
}

func (p *Pipeline) publish(d *Decision, req Request) {
	if p.events == nil {
		return
	}
	switch d.Outcome {
	case OutcomeAdmitted:
		p.events.TransactionAdmitted(d.Transaction)
	case OutcomeRateLimited:
		if d.RateLimited.Alert != nil {
			p.events.FraudAlertRaised(d.RateLimited.Alert)
		}
		p.events.TransactionRejected(req.CustomerID, d.Outcome, d.Err().Error())
	default:
		p.events.TransactionRejected(req.CustomerID, d.Outcome, d.Err().Error())
	}
}
