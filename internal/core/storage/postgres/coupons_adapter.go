package postgres

import (
	"context"
	"database/sql"
	"fmt"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

// CouponAdapter implements storage.CouponStore for PostgreSQL.
type CouponAdapter struct {
	db *sql.DB
}

// NewCouponAdapter creates a coupon store sharing the adapter's pool.
func NewCouponAdapter(db *sql.DB) *CouponAdapter {
	return &CouponAdapter{db: db}
}

// SaveCoupon inserts a coupon. A conflicting code yields storage.ErrDuplicate.
func (a *CouponAdapter) SaveCoupon(ctx context.Context, c *v1.Coupon) error {
	res, err := a.db.ExecContext(ctx, queryInsertCoupon, c.ID, c.Code, c.Amount)
	if err != nil {
		return fmt.Errorf("failed to save coupon: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrDuplicate
	}
	return nil
}

func (a *CouponAdapter) UpdateCoupon(ctx context.Context, c *v1.Coupon) error {
	res, err := a.db.ExecContext(ctx, queryUpdateCoupon, c.ID, c.Code, c.Amount)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	return requireRowAffected(res)
}

func (a *CouponAdapter) DeleteCoupon(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, queryDeleteCoupon, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return requireRowAffected(res)
}

func (a *CouponAdapter) GetCoupon(ctx context.Context, id string) (*v1.Coupon, error) {
	c, err := scanCouponRow(a.db.QueryRowContext(ctx, queryGetCoupon, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return c, nil
}

func (a *CouponAdapter) FindCouponByCode(ctx context.Context, code string) (*v1.Coupon, error) {
	c, err := scanCouponRow(a.db.QueryRowContext(ctx, queryFindCouponByCode, code))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}
	return c, nil
}

func (a *CouponAdapter) ListCoupons(ctx context.Context) ([]*v1.Coupon, error) {
	rows, err := a.db.QueryContext(ctx, queryListCoupons)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*v1.Coupon
	for rows.Next() {
		c, err := scanCouponRow(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}
	return coupons, nil
}
