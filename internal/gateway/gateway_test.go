package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0097eo/ideal-furniture/internal/identity"
	"github.com/0097eo/ideal-furniture/internal/query"
	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
	"github.com/0097eo/ideal-furniture/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStorefront builds a chi-routed stand-in for the backend API.
func fakeStorefront(t *testing.T, configure func(r chi.Router)) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	configure(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newTestGateway(serverURL string, provider identity.CredentialProvider) *Gateway {
	client := httpclient.New(httpclient.Config{Timeout: 5 * time.Second, MaxConnsPerHost: 10})
	return New(client, serverURL, provider, testLogger(), 10)
}

func signedInProvider() *identity.MemoryProvider {
	p := identity.NewMemoryProvider()
	p.SignIn(identity.User{ID: "u1", Username: "shopper"}, "token-abc")
	return p
}

func TestFetchCart_AttachesBearerAndCorrelation(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "Bearer token-abc", req.Header.Get("Authorization"))
			assert.NotEmpty(t, req.Header.Get("X-Correlation-ID"))
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": "7", "product_id": "2", "product_name": "Oak Table", "price": 120.50, "quantity": 2},
			})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	items, err := g.FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].ID)
	assert.Equal(t, "Oak Table", items[0].ProductName)
	assert.Equal(t, 2, items[0].Quantity)
	assert.InDelta(t, 120.50, items[0].Price, 0.001)
}

func TestFetchCart_NoBearerWhenUnauthenticated(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
			assert.Empty(t, req.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "missing token"})
		})
	})

	g := newTestGateway(server.URL, identity.NewMemoryProvider())

	_, err := g.FetchCart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestFetchCart_EmptyCartMessageObject(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Get("/cart", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Cart is empty"})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	items, err := g.FetchCart(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddCartItem_AckOnly(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Post("/cart", func(w http.ResponseWriter, req *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "3", payload["product_id"])
			assert.EqualValues(t, 1, payload["quantity"])
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Item added to cart"})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	err := g.AddCartItem(context.Background(), "3", 1)
	assert.NoError(t, err)
}

func TestAddCartItem_ValidationErrorVerbatim(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Post("/cart", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Product not available"})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	err := g.AddCartItem(context.Background(), "3", 1)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "Product not available", apperrors.Message(err))
}

func TestUpdateCartItem_SendsQuantity(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Put("/cart/{id}", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "7", chi.URLParam(req, "id"))
			var payload map[string]int
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, 5, payload["quantity"])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "7", "product_name": "Oak Table", "quantity": 5, "price": 120.50,
			})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	item, err := g.UpdateCartItem(context.Background(), "7", 5)
	require.NoError(t, err)
	assert.Equal(t, "7", item.ID)
	assert.Equal(t, 5, item.Quantity)
}

func TestUpdateCartItem_AckOnlyResponse(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Put("/cart/{id}", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	item, err := g.UpdateCartItem(context.Background(), "7", 3)
	require.NoError(t, err)
	assert.Equal(t, "7", item.ID)
	assert.Equal(t, 3, item.Quantity)
}

func TestDeleteCartItem_NotFoundMapped(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Delete("/cart/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "cart item not found"})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	err := g.DeleteCartItem(context.Background(), "404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckout_Success(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Post("/checkout", func(w http.ResponseWriter, req *http.Request) {
			body, _ := json.Marshal(map[string]any{
				"order_id":     "A1",
				"total_amount": 1500.00,
				"message":      "Order placed successfully",
				"address":      "123 Main St, Anytown, USA",
			})
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	result, err := g.Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A1", result.OrderID)
	assert.InDelta(t, 1500.00, result.TotalAmount, 0.001)
	assert.Equal(t, "Order placed successfully", result.Message)
	assert.Equal(t, "123 Main St, Anytown, USA", result.Address)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Post("/checkout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Cart is empty"})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	_, err := g.Checkout(context.Background())
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "Cart is empty", apperrors.Message(err))
}

func TestFetchProducts_QueryParameters(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
			params := req.URL.Query()
			assert.Equal(t, "2", params.Get("page"))
			assert.Equal(t, "10", params.Get("per_page"))
			assert.Equal(t, "sofa", params.Get("q"))
			assert.Equal(t, "1", params.Get("category_id"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"products": []map[string]any{{"id": "11", "name": "Velvet Sofa", "price": 999.99}},
				"pages":    4,
			})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	page, err := g.FetchProducts(context.Background(), query.Query{Page: 2, Search: "sofa", CategoryID: "1"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Pages)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Velvet Sofa", page.Products[0].Name)
}

func TestFetchProducts_OmitsEmptyFilters(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
			params := req.URL.Query()
			assert.False(t, params.Has("q"))
			assert.False(t, params.Has("category_id"))
			_ = json.NewEncoder(w).Encode(map[string]any{"products": []any{}, "pages": 0})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	_, err := g.FetchProducts(context.Background(), query.Default())
	require.NoError(t, err)
}

func TestFetchOrders(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Get("/orders", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{
					"order_id":     "9",
					"total_amount": 250.00,
					"status":       "completed",
					"created_at":   "2026-08-01T10:00:00Z",
					"items": []map[string]any{
						{"product_name": "Lamp", "quantity": 2, "price": 125.00},
					},
				},
			})
		})
	})

	g := newTestGateway(server.URL, signedInProvider())

	orders, err := g.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "9", orders[0].OrderID)
	assert.Equal(t, "completed", orders[0].Status)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Lamp", orders[0].Items[0].ProductName)
}

func TestRegister_ReturnsMessageVerbatim(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Post("/register", func(w http.ResponseWriter, req *http.Request) {
			var payload map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "shopper", payload["username"])
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message": "User created. Please check your email for verification code",
			})
		})
	})

	g := newTestGateway(server.URL, identity.NewMemoryProvider())

	msg, err := g.Register(context.Background(), "shopper", "shopper@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Contains(t, msg, "Please check your email for verification")
}

func TestRegister_ValidationErrorVerbatim(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Post("/register", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "username already taken"})
		})
	})

	g := newTestGateway(server.URL, identity.NewMemoryProvider())

	_, err := g.Register(context.Background(), "shopper", "shopper@example.com", "s3cretpass")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "username already taken", apperrors.Message(err))
}

func TestVerifyEmail(t *testing.T) {
	server := fakeStorefront(t, func(r chi.Router) {
		r.Post("/verify-email", func(w http.ResponseWriter, req *http.Request) {
			var payload map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "shopper@example.com", payload["email"])
			assert.Equal(t, "123456", payload["code"])
			_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
		})
	})

	g := newTestGateway(server.URL, identity.NewMemoryProvider())

	ok, err := g.VerifyEmail(context.Background(), "shopper@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNetworkFailureClassified(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused

	g := newTestGateway(server.URL, signedInProvider())

	_, err := g.FetchCart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}
