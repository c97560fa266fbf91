// Package cart owns the in-memory shopping cart and reconciles it with the
// server. Mutations apply optimistically: the visible cart changes before the
// network call resolves, and a failed call rolls the change back. Responses
// for superseded mutations are discarded via per-item sequence numbers.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/0097eo/ideal-furniture/internal/domain"
	"github.com/0097eo/ideal-furniture/internal/identity"
	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
	"github.com/0097eo/ideal-furniture/pkg/state"
)

// Gateway is the subset of REST operations the store needs.
type Gateway interface {
	FetchCart(ctx context.Context) ([]domain.CartItem, error)
	AddCartItem(ctx context.Context, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (domain.CartItem, error)
	DeleteCartItem(ctx context.Context, itemID string) error
}

// Snapshot is the observable cart state. Err is the most recent transient
// mutation or load failure; it never invalidates the rest of the cart.
type Snapshot struct {
	Cart    domain.Cart
	Err     error
	Loading bool
}

// Store is the exclusive owner of the local cart. All mutations go through
// its intents; no other component writes the cart.
type Store struct {
	mu      sync.Mutex
	cart    domain.Cart
	seqs    map[string]uint64
	err     error
	loading bool

	gw     Gateway
	creds  identity.CredentialProvider
	logger *slog.Logger
	source *state.Source[Snapshot]
}

// NewStore creates an empty cart store.
func NewStore(gw Gateway, creds identity.CredentialProvider, logger *slog.Logger) *Store {
	return &Store{
		seqs:   make(map[string]uint64),
		gw:     gw,
		creds:  creds,
		logger: logger,
		source: state.NewSource(Snapshot{}),
	}
}

// Snapshot returns the current observable state.
func (s *Store) Snapshot() Snapshot {
	return s.source.Get()
}

// Subscribe registers fn for every state change.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	return s.source.Subscribe(fn)
}

// snapshotLocked builds a Snapshot that does not alias internal state.
// Callers must hold s.mu and publish the result after unlocking.
func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Cart: s.cart.Clone(), Err: s.err, Loading: s.loading}
}

// Load replaces the cart from the server. Unauthenticated users get an empty
// cart immediately with no network call: guest carts are not supported. On
// fetch failure the error flag is set and the cart keeps its previous value.
func (s *Store) Load(ctx context.Context) {
	if _, ok := s.creds.Credential(); !ok {
		s.mu.Lock()
		s.cart = domain.Cart{}
		s.seqs = make(map[string]uint64)
		s.err = nil
		s.loading = false
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.source.Set(snap)
		return
	}

	s.mu.Lock()
	s.loading = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.source.Set(snap)

	items, err := s.gw.FetchCart(ctx)

	s.mu.Lock()
	s.loading = false
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		// Credential rejected: treat the user as logged out for cart purposes.
		s.cart = domain.Cart{}
		s.seqs = make(map[string]uint64)
		s.err = nil
	case err != nil:
		s.err = err
		s.logger.WarnContext(ctx, "cart load failed", slog.String("error", err.Error()))
	default:
		s.cart = domain.Cart{Items: items}
		s.seqs = make(map[string]uint64)
		s.err = nil
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.source.Set(snap)
}

// AddItem puts quantity units of a product into the server cart. The server
// does not echo the created item, so the cart is reloaded on success to pick
// it up; there is no optimistic add because the item's identity and price are
// unknown until then. Quantities below 1 and unauthenticated users are
// rejected before any network call.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		s.logger.DebugContext(ctx, "rejected quantity below 1",
			slog.String("product_id", productID),
			slog.Int("quantity", quantity),
		)
		return
	}
	if _, ok := s.creds.Credential(); !ok {
		s.mu.Lock()
		s.err = apperrors.Unauthorized("log in to add items to your cart")
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.source.Set(snap)
		return
	}

	go func() {
		if err := s.gw.AddCartItem(ctx, productID, quantity); err != nil {
			s.mu.Lock()
			s.err = err
			snap := s.snapshotLocked()
			s.mu.Unlock()
			s.source.Set(snap)
			s.logger.WarnContext(ctx, "add to cart failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
			return
		}
		s.Load(ctx)
	}()
}

// SetQuantity changes an item's quantity. Quantities below 1 are rejected
// before any network call. The change is applied optimistically and rolled
// back if the server declines it. A newer mutation on the same item
// supersedes this one: only the latest desired quantity is persisted and a
// superseded response is ignored on arrival.
func (s *Store) SetQuantity(ctx context.Context, itemID string, quantity int) {
	if quantity < 1 {
		s.logger.DebugContext(ctx, "rejected quantity below 1",
			slog.String("item_id", itemID),
			slog.Int("quantity", quantity),
		)
		return
	}

	s.mu.Lock()
	idx := s.cart.FindIndex(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	prev := s.cart.Items[idx].Quantity
	s.cart.Items[idx].Quantity = quantity
	s.seqs[itemID]++
	seq := s.seqs[itemID]
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.source.Set(snap)

	go func() {
		_, err := s.gw.UpdateCartItem(ctx, itemID, quantity)

		s.mu.Lock()
		if s.seqs[itemID] != seq {
			s.mu.Unlock()
			s.logger.DebugContext(ctx, "discarded superseded quantity response",
				slog.String("item_id", itemID),
			)
			return
		}
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			// Item no longer exists server-side: reconcile by removing it.
			if i := s.cart.FindIndex(itemID); i >= 0 {
				s.cart.Items = slices.Delete(s.cart.Items, i, i+1)
			}
			delete(s.seqs, itemID)
		case err != nil:
			if i := s.cart.FindIndex(itemID); i >= 0 {
				s.cart.Items[i].Quantity = prev
			}
			s.err = err
			s.logger.WarnContext(ctx, "quantity update rolled back",
				slog.String("item_id", itemID),
				slog.String("error", err.Error()),
			)
		}
		// On success the optimistic value already matches the server.
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.source.Set(snap)
	}()
}

// RemoveItem removes an item optimistically. If the server declines, the
// item is reinserted at its original position with its original quantity.
// Removal supersedes any in-flight quantity update for the same item.
func (s *Store) RemoveItem(ctx context.Context, itemID string) {
	s.mu.Lock()
	idx := s.cart.FindIndex(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.cart.Items[idx]
	s.cart.Items = slices.Delete(s.cart.Items, idx, idx+1)
	s.seqs[itemID]++
	seq := s.seqs[itemID]
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.source.Set(snap)

	go func() {
		err := s.gw.DeleteCartItem(ctx, itemID)

		s.mu.Lock()
		if s.seqs[itemID] != seq {
			s.mu.Unlock()
			return
		}
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			// Already gone server-side; the optimistic removal stands.
			delete(s.seqs, itemID)
		case err != nil:
			pos := idx
			if pos > len(s.cart.Items) {
				pos = len(s.cart.Items)
			}
			s.cart.Items = slices.Insert(s.cart.Items, pos, removed)
			s.err = err
			s.logger.WarnContext(ctx, "item removal rolled back",
				slog.String("item_id", itemID),
				slog.String("error", err.Error()),
			)
		default:
			delete(s.seqs, itemID)
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.source.Set(snap)
	}()
}

// Clear empties the in-memory cart. Only the checkout orchestrator calls
// this, and only after a confirmed successful checkout: the server clears
// the persisted cart atomically with order creation.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cart = domain.Cart{}
	s.seqs = make(map[string]uint64)
	s.err = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.source.Set(snap)
}
