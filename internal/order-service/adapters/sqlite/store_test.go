package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/adapters/sqlite"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/app"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/domain"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newOrder(number string, items ...domain.LineItemRequest) *domain.Order {
	return domain.NewOrder(number, domain.OrderRequest{LineItems: items})
}

func TestStore_SaveAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	order := newOrder("order-1",
		domain.LineItemRequest{SkuCode: "SKU1", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		domain.LineItemRequest{SkuCode: "SKU2", Price: decimal.RequireFromString("0.3333"), Quantity: 1},
		domain.LineItemRequest{SkuCode: "SKU1", Price: decimal.RequireFromString("9.99"), Quantity: 5},
	)
	require.NoError(t, store.Save(ctx, order))

	got, err := store.Get(ctx, "order-1")
	require.NoError(t, err)

	assert.Equal(t, "order-1", got.OrderNumber)
	assert.WithinDuration(t, order.CreatedAt, got.CreatedAt, time.Microsecond)
	require.Len(t, got.LineItems, 3)
	for i, want := range order.LineItems {
		assert.Equal(t, want.SkuCode, got.LineItems[i].SkuCode)
		assert.True(t, want.Price.Equal(got.LineItems[i].Price), "price of line %d", i)
		assert.Equal(t, want.Quantity, got.LineItems[i].Quantity)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := openStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestStore_SaveIsAtomic(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	// Second line violates the quantity check after the order row and the
	// first line were written.
	order := newOrder("order-1",
		domain.LineItemRequest{SkuCode: "SKU1", Price: decimal.NewFromInt(1), Quantity: 1},
		domain.LineItemRequest{SkuCode: "SKU2", Price: decimal.NewFromInt(1), Quantity: 0},
	)
	require.Error(t, store.Save(ctx, order))

	_, err := store.Get(ctx, "order-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestStore_DuplicateOrderNumber(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := newOrder("order-1", domain.LineItemRequest{SkuCode: "SKU1", Price: decimal.NewFromInt(1), Quantity: 1})
	require.NoError(t, store.Save(ctx, first))

	second := newOrder("order-1", domain.LineItemRequest{SkuCode: "SKU9", Price: decimal.NewFromInt(7), Quantity: 3})
	require.Error(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "SKU1", got.LineItems[0].SkuCode)
}

type allInStock struct{}

func (allInStock) CheckStock(_ context.Context, codes []string) ([]domain.InventoryStatus, error) {
	out := make([]domain.InventoryStatus, len(codes))
	for i, c := range codes {
		out[i] = domain.InventoryStatus{SkuCode: c, InStock: true}
	}
	return out, nil
}

func TestPlacementService_WithSQLiteStore(t *testing.T) {
	store := openStore(t)
	svc := app.NewPlacementService(allInStock{}, store, nil, time.Second)
	ctx := context.Background()

	t.Run("admitted order is committed", func(t *testing.T) {
		order, err := svc.PlaceOrder(ctx, domain.OrderRequest{LineItems: []domain.LineItemRequest{
			{SkuCode: "SKU1", Price: decimal.RequireFromString("10.00"), Quantity: 2},
			{SkuCode: "SKU2", Price: decimal.RequireFromString("5.00"), Quantity: 1},
		}})
		require.NoError(t, err)

		got, err := svc.GetOrder(ctx, order.OrderNumber)
		require.NoError(t, err)
		assert.Len(t, got.LineItems, 2)
	})

	t.Run("store failure leaves nothing behind", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, domain.OrderRequest{LineItems: []domain.LineItemRequest{
			{SkuCode: "SKU1", Price: decimal.NewFromInt(1), Quantity: 1},
			{SkuCode: "SKU2", Price: decimal.NewFromInt(1), Quantity: -1},
		}})
		require.ErrorIs(t, err, domain.ErrPersistenceFailed)

		var pErr *domain.PlacementError
		require.ErrorAs(t, err, &pErr)
		_, getErr := svc.GetOrder(ctx, pErr.OrderNumber)
		assert.ErrorIs(t, getErr, domain.ErrOrderNotFound)
	})
}
