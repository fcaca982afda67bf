// Package orders handles order placement, fulfillment progression and the
// cached order lookups.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/cache"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

type Service struct {
	orders   storage.OrderStore
	products storage.ProductStore
	cache    *cache.Client
	inv      *cache.Invalidator
	nowFn    func() time.Time
}

func NewService(orders storage.OrderStore, products storage.ProductStore, cacheClient *cache.Client, inv *cache.Invalidator) *Service {
	return &Service{
		orders:   orders,
		products: products,
		cache:    cacheClient,
		inv:      inv,
		nowFn:    time.Now,
	}
}

// Create places an order: persist it, reduce stock for each line item, then
// invalidate the product, order and admin key families. Stock reduction
// happens after the order commit; a failed reduction logs and continues so
// the placed order is never rolled back by a cache-adjacent bookkeeping step.
func (s *Service) Create(ctx context.Context, order *v1.Order) (*v1.Order, error) {
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", httperr.ErrValidation, err)
	}

	order.ID = uuid.NewString()
	order.Status = v1.StatusProcessing
	order.CreatedAt = s.nowFn().UTC()

	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	productIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
		if err := s.products.ReduceStock(ctx, item.ProductID, item.Quantity); err != nil {
			slog.Error("[Orders] Failed to reduce stock", "product_id", item.ProductID, "error", err)
		}
	}

	slog.Info("[Orders] Order placed", "order_id", order.ID, "user_id", order.UserID, "items", len(order.Items))
	s.inv.Invalidate(ctx, cache.Event{
		Product:    true,
		Order:      true,
		Admin:      true,
		UserID:     order.UserID,
		ProductIDs: productIDs,
	})
	return order, nil
}

// My returns one user's orders, read through my-orders-{userId}.
func (s *Service) My(ctx context.Context, userID string) ([]*v1.Order, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.MyOrdersKey(userID), 0, func(ctx context.Context) ([]*v1.Order, error) {
		return s.orders.ListOrdersByUser(ctx, userID)
	})
}

// All returns every order, read through all-orders.
func (s *Service) All(ctx context.Context) ([]*v1.Order, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyAllOrders, 0, func(ctx context.Context) ([]*v1.Order, error) {
		return s.orders.ListOrders(ctx)
	})
}

// Get returns one order, read through order-{id}.
func (s *Service) Get(ctx context.Context, id string) (*v1.Order, error) {
	order, err := cache.GetOrCompute(ctx, s.cache, cache.OrderKey(id), 0, func(ctx context.Context) (*v1.Order, error) {
		return s.orders.GetOrder(ctx, id)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// Process advances an order one fulfillment step.
func (s *Service) Process(ctx context.Context, id string) (*v1.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order.Status = v1.NextStatus(order.Status)
	if err := s.orders.UpdateOrderStatus(ctx, id, order.Status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	slog.Info("[Orders] Order processed", "order_id", id, "status", order.Status)
	s.inv.Invalidate(ctx, cache.Event{
		Order:   true,
		Admin:   true,
		UserID:  order.UserID,
		OrderID: id,
	})
	return order, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id string) error {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: order %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	slog.Info("[Orders] Order deleted", "order_id", id)
	s.inv.Invalidate(ctx, cache.Event{
		Order:   true,
		Admin:   true,
		UserID:  order.UserID,
		OrderID: id,
	})
	return nil
}
