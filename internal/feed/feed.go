// Package feed keeps the product listing in sync with the current query.
// Fetches are race-safe: each query change bumps a sequence number and
// cancels the previous in-flight request, and a response is applied only if
// it belongs to the most recently issued query. The feed never retains
// listing parameters of its own; it is always driven by the latest query.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/0097eo/ideal-furniture/internal/domain"
	"github.com/0097eo/ideal-furniture/internal/query"
	"github.com/0097eo/ideal-furniture/pkg/state"
)

// Fetcher issues the product listing call.
type Fetcher interface {
	FetchProducts(ctx context.Context, q query.Query) (domain.ProductPage, error)
}

// Snapshot is the observable listing state. On a failed fetch the last good
// page is retained and Err is set; the list is never blanked by a transient
// failure.
type Snapshot struct {
	Page    domain.ProductPage
	Query   query.Query
	Err     error
	Loading bool
}

// Feed owns the listing fetch lifecycle.
type Feed struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	page    domain.ProductPage
	current query.Query
	err     error
	loading bool

	fetcher Fetcher
	logger  *slog.Logger
	source  *state.Source[Snapshot]
}

// New creates a feed showing no results yet.
func New(fetcher Fetcher, logger *slog.Logger) *Feed {
	return &Feed{
		fetcher: fetcher,
		logger:  logger,
		source:  state.NewSource(Snapshot{Query: query.Default()}),
	}
}

// Snapshot returns the current observable state.
func (f *Feed) Snapshot() Snapshot {
	return f.source.Get()
}

// Subscribe registers fn for every state change.
func (f *Feed) Subscribe(fn func(Snapshot)) (cancel func()) {
	return f.source.Subscribe(fn)
}

func (f *Feed) snapshotLocked() Snapshot {
	return Snapshot{Page: f.page, Query: f.current, Err: f.err, Loading: f.loading}
}

// OnQueryChange issues a fetch for q, superseding any in-flight fetch. The
// superseded request is cancelled and its response, should it still arrive,
// is discarded: the feed only ever reflects the most recently issued query.
func (f *Feed) OnQueryChange(ctx context.Context, q query.Query) {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	if f.cancel != nil {
		f.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.current = q
	f.loading = true
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.source.Set(snap)

	go func() {
		defer cancel()

		page, err := f.fetcher.FetchProducts(fetchCtx, q)

		f.mu.Lock()
		if seq != f.seq {
			f.mu.Unlock()
			f.logger.DebugContext(ctx, "discarded stale listing response",
				slog.Int("page", q.Page),
				slog.String("q", q.Search),
			)
			return
		}
		f.loading = false
		if err != nil {
			f.err = err
			f.logger.WarnContext(ctx, "listing fetch failed",
				slog.Int("page", q.Page),
				slog.String("error", err.Error()),
			)
		} else {
			f.page = page
			f.err = nil
		}
		snap := f.snapshotLocked()
		f.mu.Unlock()
		f.source.Set(snap)
	}()
}
