// Package gateway wraps the storefront REST API with typed operations. It
// attaches the current bearer credential, classifies failures into the
// client error taxonomy, and performs no retries and no caching: every call
// reaches the network, and retry policy belongs to callers.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/0097eo/ideal-furniture/internal/domain"
	"github.com/0097eo/ideal-furniture/internal/identity"
	"github.com/0097eo/ideal-furniture/internal/query"
	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
	"github.com/0097eo/ideal-furniture/pkg/httpclient"
	"github.com/0097eo/ideal-furniture/pkg/logger"
)

// Doer executes a single HTTP request. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Gateway exposes the storefront REST operations.
type Gateway struct {
	http    Doer
	baseURL string
	creds   identity.CredentialProvider
	logger  *slog.Logger
	tracer  trace.Tracer
	perPage int
}

// New creates a Gateway for the backend at baseURL. perPage controls the
// product listing page size.
func New(doer Doer, baseURL string, creds identity.CredentialProvider, log *slog.Logger, perPage int) *Gateway {
	return &Gateway{
		http:    doer,
		baseURL: baseURL,
		creds:   creds,
		logger:  log,
		tracer:  otel.Tracer("storefront/gateway"),
		perPage: perPage,
	}
}

// do issues a single JSON request against the backend. Transport failures
// are classified as network errors; responses are returned for the caller
// to interpret by status.
func (g *Gateway) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	ctx, span := g.tracer.Start(ctx, method+" "+path)
	defer span.End()

	correlationID := uuid.NewString()
	ctx = logger.WithCorrelationID(ctx, correlationID)

	req, err := httpclient.NewJSONRequest(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Correlation-ID", correlationID)
	if token, ok := g.creds.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := logger.WithContext(ctx, g.logger)
	log.DebugContext(ctx, "request issued",
		slog.String("method", method),
		slog.String("path", path),
	)

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		log.WarnContext(ctx, "request failed before reaching the server",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Network(err)
	}
	return resp, nil
}

// FetchCart retrieves the authenticated user's cart items.
// Some server versions answer an empty cart with a message object rather
// than an empty array; both decode to an empty item list.
func (g *Gateway) FetchCart(ctx context.Context) ([]domain.CartItem, error) {
	resp, err := g.do(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "GET /cart")
	}

	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Network(err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return []domain.CartItem{}, nil
	}
	return items, nil
}

// AddCartItem puts quantity units of a product into the server-held cart.
// The server acknowledges with 201 and no item payload; callers reload the
// cart to observe the result.
func (g *Gateway) AddCartItem(ctx context.Context, productID string, quantity int) error {
	payload := struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	resp, err := g.do(ctx, http.MethodPost, "/cart", payload)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, "POST /cart")
	}
	_ = resp.Body.Close()
	return nil
}

// UpdateCartItem sets the quantity of a cart item.
func (g *Gateway) UpdateCartItem(ctx context.Context, itemID string, quantity int) (domain.CartItem, error) {
	payload := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	resp, err := g.do(ctx, http.MethodPut, "/cart/"+url.PathEscape(itemID), payload)
	if err != nil {
		return domain.CartItem{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return domain.CartItem{}, httpclient.ParseResponseError(resp, "PUT /cart/"+itemID)
	}

	// Some server versions return only an ack; fall back to the requested
	// values when no updated item is echoed.
	item := domain.CartItem{ID: itemID, Quantity: quantity}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		_ = json.Unmarshal(raw, &item)
	}
	return item, nil
}

// DeleteCartItem removes an item from the cart.
func (g *Gateway) DeleteCartItem(ctx context.Context, itemID string) error {
	resp, err := g.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(itemID), nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "DELETE /cart/"+itemID)
	}
	_ = resp.Body.Close()
	return nil
}

// Checkout initiates an order from the server-held cart. The body is empty:
// the server determines cart contents from the authenticated identity.
func (g *Gateway) Checkout(ctx context.Context) (domain.CheckoutResult, error) {
	resp, err := g.do(ctx, http.MethodPost, "/checkout", struct{}{})
	if err != nil {
		return domain.CheckoutResult{}, err
	}
	if resp.StatusCode != http.StatusCreated {
		return domain.CheckoutResult{}, httpclient.ParseResponseError(resp, "POST /checkout")
	}

	var result domain.CheckoutResult
	if err := httpclient.DecodeJSON(resp, &result); err != nil {
		return domain.CheckoutResult{}, apperrors.Server(resp.StatusCode, fmt.Sprintf("malformed checkout response: %v", err))
	}
	return result, nil
}

// FetchProducts retrieves one page of the product listing for q.
func (g *Gateway) FetchProducts(ctx context.Context, q query.Query) (domain.ProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(g.perPage))
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	if q.CategoryID != "" {
		params.Set("category_id", q.CategoryID)
	}

	resp, err := g.do(ctx, http.MethodGet, "/products?"+params.Encode(), nil)
	if err != nil {
		return domain.ProductPage{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ProductPage{}, httpclient.ParseResponseError(resp, "GET /products")
	}

	var page domain.ProductPage
	if err := httpclient.DecodeJSON(resp, &page); err != nil {
		return domain.ProductPage{}, apperrors.Server(resp.StatusCode, fmt.Sprintf("malformed products response: %v", err))
	}
	return page, nil
}

// FetchOrders retrieves the authenticated user's order history.
func (g *Gateway) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	resp, err := g.do(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "GET /orders")
	}

	var orders []domain.Order
	if err := httpclient.DecodeJSON(resp, &orders); err != nil {
		return nil, apperrors.Server(resp.StatusCode, fmt.Sprintf("malformed orders response: %v", err))
	}
	return orders, nil
}

// Register creates a new shopper account. The server's message is returned
// verbatim; it carries the email-verification instruction.
func (g *Gateway) Register(ctx context.Context, username, email, password string) (string, error) {
	payload := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Username: username, Email: email, Password: password}

	resp, err := g.do(ctx, http.MethodPost, "/register", payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", httpclient.ParseResponseError(resp, "POST /register")
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := httpclient.DecodeJSON(resp, &body); err != nil {
		return "", apperrors.Server(resp.StatusCode, fmt.Sprintf("malformed register response: %v", err))
	}
	return body.Message, nil
}

// VerifyEmail confirms a shopper's email with the code they received.
func (g *Gateway) VerifyEmail(ctx context.Context, email, code string) (bool, error) {
	payload := struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}{Email: email, Code: code}

	resp, err := g.do(ctx, http.MethodPost, "/verify-email", payload)
	if err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusOK {
		return false, httpclient.ParseResponseError(resp, "POST /verify-email")
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := httpclient.DecodeJSON(resp, &body); err != nil {
		return false, apperrors.Server(resp.StatusCode, fmt.Sprintf("malformed verify response: %v", err))
	}
	return body.Success, nil
}
