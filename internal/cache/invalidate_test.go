package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, keys ...string) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	ctx := context.Background()
	for _, key := range keys {
		require.NoError(t, store.SetWithTTL(ctx, key, "cached", 0))
	}
	return store
}

func requireMiss(t *testing.T, store *MemoryStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, err := store.Get(context.Background(), key)
		require.ErrorIs(t, err, ErrMiss, "expected %q to be evicted", key)
	}
}

func requireHit(t *testing.T, store *MemoryStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, err := store.Get(context.Background(), key)
		require.NoError(t, err, "expected %q to survive", key)
	}
}

func TestInvalidateProductFlag(t *testing.T) {
	store := seedStore(t,
		"product-p1", "product-p2",
		KeyLatestProducts, KeyCategories, KeyAllProducts,
		"products-phone--all--1", "products---electronics-500-2",
		"order-o1", "my-orders-u1", KeyAllOrders,
		KeyAdminStats, KeyAdminPieCharts,
	)

	NewInvalidator(store).Invalidate(context.Background(), Event{
		Product:    true,
		ProductIDs: []string{"p1", "p2"},
	})

	requireMiss(t, store,
		"product-p1", "product-p2",
		KeyLatestProducts, KeyCategories, KeyAllProducts,
		"products-phone--all--1", "products---electronics-500-2",
	)
	requireHit(t, store, "order-o1", "my-orders-u1", KeyAllOrders, KeyAdminStats, KeyAdminPieCharts)
}

func TestInvalidateOrderFlag(t *testing.T) {
	store := seedStore(t, "order-o1", "my-orders-u1", KeyAllOrders, "product-p1", KeyAdminStats)

	NewInvalidator(store).Invalidate(context.Background(), Event{
		Order:   true,
		OrderID: "o1",
		UserID:  "u1",
	})

	requireMiss(t, store, "order-o1", "my-orders-u1", KeyAllOrders)
	requireHit(t, store, "product-p1", KeyAdminStats)
}

func TestInvalidateAdminFlag(t *testing.T) {
	store := seedStore(t,
		KeyAdminStats, KeyAdminPieCharts, KeyAdminBarCharts, KeyAdminLineCharts,
		"product-p1", KeyAllOrders,
	)

	NewInvalidator(store).Invalidate(context.Background(), Event{Admin: true})

	requireMiss(t, store, KeyAdminStats, KeyAdminPieCharts, KeyAdminBarCharts, KeyAdminLineCharts)
	requireHit(t, store, "product-p1", KeyAllOrders)
}

func TestInvalidateReviewFlag(t *testing.T) {
	store := seedStore(t, "reviews-p1", "product-p1", KeyLatestProducts)

	NewInvalidator(store).Invalidate(context.Background(), Event{
		Review:     true,
		ProductIDs: []string{"p1"},
	})

	requireMiss(t, store, "reviews-p1")
	requireHit(t, store, "product-p1", KeyLatestProducts)
}

func TestInvalidateCombinedOrderPlacement(t *testing.T) {
	// Placing an order touches stock, the buyer's orders, and admin charts.
	store := seedStore(t,
		"product-p1", "product-p2", KeyLatestProducts, KeyCategories, KeyAllProducts,
		"products---all--1",
		"order-o9", "my-orders-u7", KeyAllOrders,
		KeyAdminStats, KeyAdminPieCharts, KeyAdminBarCharts, KeyAdminLineCharts,
		"reviews-p1",
	)

	NewInvalidator(store).Invalidate(context.Background(), Event{
		Product:    true,
		Order:      true,
		Admin:      true,
		OrderID:    "o9",
		UserID:     "u7",
		ProductIDs: []string{"p1", "p2"},
	})

	requireHit(t, store, "reviews-p1")
	require.Equal(t, 1, store.Len())
}
