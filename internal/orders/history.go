// Package orders fetches the shopper's order history for the dashboard.
// Orders are read-only snapshots; the core never mutates them.
package orders

import (
	"context"
	"log/slog"
	"sync"

	"github.com/0097eo/ideal-furniture/internal/domain"
	"github.com/0097eo/ideal-furniture/pkg/state"
)

// Lister issues the order history call.
type Lister interface {
	FetchOrders(ctx context.Context) ([]domain.Order, error)
}

// Snapshot is the observable dashboard state. Errors are surfaced here and
// nowhere else.
type Snapshot struct {
	Orders  []domain.Order
	Err     error
	Loading bool
}

// History holds the fetched order list.
type History struct {
	mu      sync.Mutex
	orders  []domain.Order
	err     error
	loading bool

	gw     Lister
	logger *slog.Logger
	source *state.Source[Snapshot]
}

// NewHistory creates an empty history.
func NewHistory(gw Lister, logger *slog.Logger) *History {
	return &History{
		gw:     gw,
		logger: logger,
		source: state.NewSource(Snapshot{}),
	}
}

// Snapshot returns the current observable state.
func (h *History) Snapshot() Snapshot {
	return h.source.Get()
}

// Subscribe registers fn for every state change.
func (h *History) Subscribe(fn func(Snapshot)) (cancel func()) {
	return h.source.Subscribe(fn)
}

func (h *History) snapshotLocked() Snapshot {
	orders := make([]domain.Order, len(h.orders))
	copy(orders, h.orders)
	return Snapshot{Orders: orders, Err: h.err, Loading: h.loading}
}

// Load fetches the order history. On failure the previous list is retained
// and the error surfaced to the snapshot.
func (h *History) Load(ctx context.Context) {
	h.mu.Lock()
	h.loading = true
	snap := h.snapshotLocked()
	h.mu.Unlock()
	h.source.Set(snap)

	orders, err := h.gw.FetchOrders(ctx)

	h.mu.Lock()
	h.loading = false
	if err != nil {
		h.err = err
		h.logger.WarnContext(ctx, "order history load failed",
			slog.String("error", err.Error()),
		)
	} else {
		h.orders = orders
		h.err = nil
	}
	snap = h.snapshotLocked()
	h.mu.Unlock()
	h.source.Set(snap)
}
