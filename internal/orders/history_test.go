package orders

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0097eo/ideal-furniture/internal/domain"
	apperrors "github.com/0097eo/ideal-furniture/pkg/errors"
)

type fakeLister struct {
	orders []domain.Order
	err    error
	calls  int
}

func (f *fakeLister) FetchOrders(context.Context) ([]domain.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoad_ReplacesOrders(t *testing.T) {
	gw := &fakeLister{orders: []domain.Order{
		{OrderID: "9", TotalAmount: 250.00, Status: "completed",
			Items: []domain.OrderItem{{ProductName: "Lamp", Quantity: 2, Price: 125.00}}},
	}}
	h := NewHistory(gw, testLogger())

	h.Load(context.Background())

	snap := h.Snapshot()
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "9", snap.Orders[0].OrderID)
	assert.NoError(t, snap.Err)
	assert.False(t, snap.Loading)
}

func TestLoad_FailureRetainsPreviousListAndSurfacesError(t *testing.T) {
	gw := &fakeLister{orders: []domain.Order{{OrderID: "9"}}}
	h := NewHistory(gw, testLogger())

	h.Load(context.Background())
	require.Len(t, h.Snapshot().Orders, 1)

	gw.err = apperrors.Server(500, "boom")
	h.Load(context.Background())

	snap := h.Snapshot()
	assert.Len(t, snap.Orders, 1)
	assert.ErrorIs(t, snap.Err, apperrors.ErrServer)
}

func TestLoad_SuccessClearsError(t *testing.T) {
	gw := &fakeLister{err: apperrors.Network(assert.AnError)}
	h := NewHistory(gw, testLogger())

	h.Load(context.Background())
	require.Error(t, h.Snapshot().Err)

	gw.err = nil
	gw.orders = []domain.Order{{OrderID: "10"}}
	h.Load(context.Background())

	snap := h.Snapshot()
	assert.NoError(t, snap.Err)
	assert.Len(t, snap.Orders, 1)
	assert.Equal(t, 2, gw.calls)
}
