// Package checkout drives the one-shot checkout transition. The state
// machine, not a lock, prevents duplicate order creation: a submit while one
// is in flight, or after one succeeded, is a guarded no-op.
package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/0097eo/ideal-furniture/internal/domain"
	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
	"github.com/0097eo/ideal-furniture/pkg/state"
)

// Status is the checkout state machine position.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Submitter issues the checkout call.
type Submitter interface {
	Checkout(ctx context.Context) (domain.CheckoutResult, error)
}

// CartClearer empties the local cart after a confirmed success.
type CartClearer interface {
	Clear()
}

// Snapshot is the observable checkout state. Result is set only in
// StatusSucceeded and is immutable once produced.
type Snapshot struct {
	Status Status
	Result *domain.CheckoutResult
	Err    error
}

// Orchestrator owns the checkout lifecycle for one cart.
// Succeeded is terminal: a fresh checkout requires a fresh Orchestrator
// (and a fresh cart, which Clear produced).
type Orchestrator struct {
	mu     sync.Mutex
	status Status
	result *domain.CheckoutResult
	err    error

	gw     Submitter
	cart   CartClearer
	logger *slog.Logger
	source *state.Source[Snapshot]
}

// New creates an idle orchestrator.
func New(gw Submitter, cart CartClearer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		status: StatusIdle,
		gw:     gw,
		cart:   cart,
		logger: logger,
		source: state.NewSource(Snapshot{Status: StatusIdle}),
	}
}

// Snapshot returns the current observable state.
func (o *Orchestrator) Snapshot() Snapshot {
	return o.source.Get()
}

// Subscribe registers fn for every state change.
func (o *Orchestrator) Subscribe(fn func(Snapshot)) (cancel func()) {
	return o.source.Subscribe(fn)
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{Status: o.status, Result: o.result, Err: o.err}
}

// Submit initiates the checkout. Repeated calls while submitting, or after a
// success, issue no further requests. A failed attempt may be retried: the
// next Submit moves Failed back through Submitting.
//
// The cart is cleared only as a direct consequence of the server confirming
// the order; never optimistically.
func (o *Orchestrator) Submit(ctx context.Context) {
	o.mu.Lock()
	if o.status == StatusSubmitting || o.status == StatusSucceeded {
		status := o.status
		o.mu.Unlock()
		o.logger.DebugContext(ctx, "checkout submit ignored",
			slog.String("status", string(status)),
		)
		return
	}
	o.status = StatusSubmitting
	o.err = nil
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.source.Set(snap)

	go func() {
		result, err := o.gw.Checkout(ctx)

		o.mu.Lock()
		if err != nil {
			o.status = StatusFailed
			o.err = err
			snap := o.snapshotLocked()
			o.mu.Unlock()
			o.source.Set(snap)
			o.logger.WarnContext(ctx, "checkout failed",
				slog.String("error", err.Error()),
			)
			return
		}

		o.status = StatusSucceeded
		o.result = &result
		snap := o.snapshotLocked()
		o.mu.Unlock()
		o.source.Set(snap)

		// The server cleared the persisted cart atomically with order
		// creation; reconcile the local copy.
		o.cart.Clear()

		o.logger.InfoContext(ctx, "checkout succeeded",
			slog.String("order_id", result.OrderID),
			slog.Float64("total_amount", result.TotalAmount),
		)
	}()
}

// FailureMessage returns the user-facing message of the last failure, or
// empty when the last attempt did not fail.
func (o *Orchestrator) FailureMessage() string {
	snap := o.Snapshot()
	if snap.Status != StatusFailed || snap.Err == nil {
		return ""
	}
	return apperrors.Message(snap.Err)
}
