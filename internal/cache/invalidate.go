package cache

import (
	"context"
	"log/slog"
)

// Event describes which parts of the cached view a mutation touched.
// Flags select key families; the id fields scope the per-entity keys.
type Event struct {
	Product bool
	Order   bool
	Admin   bool
	Review  bool

	UserID     string
	OrderID    string
	ProductIDs []string
}

// Invalidator maps mutation events onto cache deletions.
type Invalidator struct {
	store Store
}

func NewInvalidator(store Store) *Invalidator {
	return &Invalidator{store: store}
}

// Invalidate drops every key family the event's flags select. Failures are
// logged and swallowed: stale entries age out via TTL, and a mutation must
// never fail because the cache is unreachable.
func (inv *Invalidator) Invalidate(ctx context.Context, event Event) {
	if event.Review {
		for _, productID := range event.ProductIDs {
			inv.delete(ctx, ReviewsKey(productID))
		}
	}

	if event.Product {
		keys := []string{KeyLatestProducts, KeyCategories, KeyAllProducts}
		for _, productID := range event.ProductIDs {
			keys = append(keys, ProductKey(productID))
		}
		inv.delete(ctx, keys...)

		if err := inv.store.DeleteByPrefix(ctx, ListingPrefix); err != nil {
			slog.Warn("[Cache] Listing invalidation failed", "prefix", ListingPrefix, "error", err)
		}
	}

	if event.Order {
		inv.delete(ctx, MyOrdersKey(event.UserID), OrderKey(event.OrderID), KeyAllOrders)
	}

	if event.Admin {
		inv.delete(ctx, AdminViewKeys()...)
	}
}

func (inv *Invalidator) delete(ctx context.Context, keys ...string) {
	if err := inv.store.Delete(ctx, keys...); err != nil {
		slog.Warn("[Cache] Invalidation failed", "keys", keys, "error", err)
	}
}
