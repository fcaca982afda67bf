package postgres

import (
	"encoding/json"
	"fmt"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanProductRow scans a product row, unpacking the photos JSON column.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanProductRow(row scanner) (*v1.Product, error) {
	var p v1.Product
	var photosJSON []byte

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Description,
		&p.Price,
		&p.Stock,
		&photosJSON,
		&p.Ratings,
		&p.NumReviews,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(photosJSON) > 0 {
		if err := json.Unmarshal(photosJSON, &p.Photos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product photos: %w", err)
		}
	}
	return &p, nil
}

// scanOrderRow scans an order row, unpacking the shipping and items JSON columns.
func scanOrderRow(row scanner) (*v1.Order, error) {
	var o v1.Order
	var shippingJSON, itemsJSON []byte

	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&shippingJSON,
		&itemsJSON,
		&o.Subtotal,
		&o.Tax,
		&o.ShippingCharges,
		&o.Discount,
		&o.Total,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shippingJSON, &o.Shipping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order shipping: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	return &o, nil
}

func scanUserRow(row scanner) (*v1.User, error) {
	var u v1.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Photo,
		&u.Role,
		&u.Gender,
		&u.DOB,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanReviewRow(row scanner) (*v1.Review, error) {
	var r v1.Review
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.ProductID,
		&r.Comment,
		&r.Rating,
		&r.VerifiedPurchase,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanCouponRow(row scanner) (*v1.Coupon, error) {
	var c v1.Coupon
	if err := row.Scan(&c.ID, &c.Code, &c.Amount); err != nil {
		return nil, err
	}
	return &c, nil
}

// marshalOrderJSON marshals an order's shipping info and items for storage.
func marshalOrderJSON(o *v1.Order) (shippingJSON, itemsJSON []byte, err error) {
	shippingJSON, err = json.Marshal(o.Shipping)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal order shipping: %w", err)
	}
	itemsJSON, err = json.Marshal(o.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal order items: %w", err)
	}
	return shippingJSON, itemsJSON, nil
}

// marshalPhotosJSON marshals a product's photo list for storage.
// Nil photos produce an empty JSON array, not SQL NULL.
func marshalPhotosJSON(photos []v1.Photo) ([]byte, error) {
	if photos == nil {
		photos = []v1.Photo{}
	}
	b, err := json.Marshal(photos)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product photos: %w", err)
	}
	return b, nil
}
