package postgres

import (
	"context"
	"database/sql"
	"fmt"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

// OrderAdapter implements storage.OrderStore for PostgreSQL.
type OrderAdapter struct {
	db *sql.DB
}

// NewOrderAdapter creates an order store sharing the adapter's pool.
func NewOrderAdapter(db *sql.DB) *OrderAdapter {
	return &OrderAdapter{db: db}
}

func (a *OrderAdapter) SaveOrder(ctx context.Context, o *v1.Order) error {
	shippingJSON, itemsJSON, err := marshalOrderJSON(o)
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, queryInsertOrder,
		o.ID, o.UserID, o.Status, shippingJSON, itemsJSON,
		o.Subtotal, o.Tax, o.ShippingCharges, o.Discount, o.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (a *OrderAdapter) GetOrder(ctx context.Context, id string) (*v1.Order, error) {
	o, err := scanOrderRow(a.db.QueryRowContext(ctx, queryGetOrder, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (a *OrderAdapter) DeleteOrder(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, queryDeleteOrder, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return requireRowAffected(res)
}

func (a *OrderAdapter) UpdateOrderStatus(ctx context.Context, id, status string) error {
	res, err := a.db.ExecContext(ctx, queryUpdateOrderStatus, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireRowAffected(res)
}

func (a *OrderAdapter) ListOrders(ctx context.Context) ([]*v1.Order, error) {
	return a.queryOrders(ctx, queryListOrders)
}

func (a *OrderAdapter) ListOrdersByUser(ctx context.Context, userID string) ([]*v1.Order, error) {
	return a.queryOrders(ctx, queryListOrdersByUser, userID)
}

func (a *OrderAdapter) LatestOrders(ctx context.Context, limit int) ([]*v1.Order, error) {
	return a.queryOrders(ctx, queryLatestOrders, limit)
}

func (a *OrderAdapter) CountOrdersByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := a.db.QueryRowContext(ctx, queryCountOrdersByStatus, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func (a *OrderAdapter) OrdersCreatedBetween(ctx context.Context, r storage.DateRange) ([]*v1.Order, error) {
	return a.queryOrders(ctx, queryOrdersCreatedBetween, r.Start, r.End)
}

func (a *OrderAdapter) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*v1.Order, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*v1.Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}
