// Package app wires the storefront sync client together: transport, gateway
// and the observable state containers. Navigation flows one way: the query
// string is parsed into the query source, and the feed reacts to it.
package app

import (
	"context"
	"log/slog"

	"github.com/0097eo/ideal-furniture/internal/account"
	"github.com/0097eo/ideal-furniture/internal/cart"
	"github.com/0097eo/ideal-furniture/internal/checkout"
	"github.com/0097eo/ideal-furniture/internal/config"
	"github.com/0097eo/ideal-furniture/internal/feed"
	"github.com/0097eo/ideal-furniture/internal/gateway"
	"github.com/0097eo/ideal-furniture/internal/identity"
	"github.com/0097eo/ideal-furniture/internal/orders"
	"github.com/0097eo/ideal-furniture/internal/query"
	"github.com/0097eo/ideal-furniture/pkg/httpclient"
	"github.com/0097eo/ideal-furniture/pkg/state"
)

// App holds the wired client. The exported fields are the surface a
// presentation layer subscribes to.
type App struct {
	Gateway  *gateway.Gateway
	Cart     *cart.Store
	Checkout *checkout.Orchestrator
	Query    *state.Source[query.Query]
	Feed     *feed.Feed
	Orders   *orders.History
	Account  *account.Service

	cfg         *config.Config
	logger      *slog.Logger
	ctx         context.Context
	unsubscribe func()
}

// New creates the client with all dependencies wired. ctx bounds the
// lifetime of fetches triggered by navigation.
func New(ctx context.Context, cfg *config.Config, provider identity.Provider, logger *slog.Logger) *App {
	client := httpclient.New(httpclient.Config{
		Timeout:         cfg.HTTPTimeout,
		MaxConnsPerHost: 100,
	})

	cbCfg := httpclient.DefaultCircuitBreakerConfig("storefront-api")
	cbCfg.FailureRatio = cfg.BreakerFailureRatio
	cbCfg.MinRequests = cfg.BreakerMinRequests
	cbCfg.Timeout = cfg.BreakerTimeout
	breaker := httpclient.NewCircuitBreakerClient(client, cbCfg, logger)

	gw := gateway.New(breaker, cfg.APIBaseURL, provider, logger, cfg.PerPage)

	cartStore := cart.NewStore(gw, provider, logger)
	productFeed := feed.New(gw, logger)
	queries := state.NewSource(query.Default())

	a := &App{
		Gateway:  gw,
		Cart:     cartStore,
		Checkout: checkout.New(gw, cartStore, logger),
		Query:    queries,
		Feed:     productFeed,
		Orders:   orders.NewHistory(gw, logger),
		Account:  account.NewService(gw, logger),
		cfg:      cfg,
		logger:   logger,
		ctx:      ctx,
	}

	a.unsubscribe = queries.Subscribe(func(q query.Query) {
		productFeed.OnQueryChange(ctx, q)
	})

	return a
}

// Navigate treats rawQuery as the browser's address bar: it is parsed into
// the canonical query value, which in turn drives the product feed.
func (a *App) Navigate(rawQuery string) {
	a.Query.Set(query.Parse(rawQuery))
}

// CurrentURLQuery returns the canonical query string for the current
// listing state, suitable for the address bar.
func (a *App) CurrentURLQuery() string {
	return a.Query.Get().Encode()
}

// ResetCheckout replaces the orchestrator after a completed checkout.
// Succeeded is terminal per cart lifetime; a fresh cart gets a fresh one.
func (a *App) ResetCheckout() {
	a.Checkout = checkout.New(a.Gateway, a.Cart, a.logger)
}

// Close detaches the navigation subscription.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}
