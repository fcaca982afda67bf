package postgres

import (
	"context"
	"database/sql"
	"fmt"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

// ReviewAdapter implements storage.ReviewStore for PostgreSQL.
type ReviewAdapter struct {
	db *sql.DB
}

// NewReviewAdapter creates a review store sharing the adapter's pool.
func NewReviewAdapter(db *sql.DB) *ReviewAdapter {
	return &ReviewAdapter{db: db}
}

func (a *ReviewAdapter) SaveReview(ctx context.Context, r *v1.Review) error {
	_, err := a.db.ExecContext(ctx, queryInsertReview,
		r.ID, r.UserID, r.ProductID, r.Comment, r.Rating,
		r.VerifiedPurchase, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

func (a *ReviewAdapter) UpdateReview(ctx context.Context, r *v1.Review) error {
	res, err := a.db.ExecContext(ctx, queryUpdateReview,
		r.ID, r.Comment, r.Rating, r.VerifiedPurchase, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return requireRowAffected(res)
}

func (a *ReviewAdapter) DeleteReview(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, queryDeleteReview, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireRowAffected(res)
}

func (a *ReviewAdapter) GetReview(ctx context.Context, id string) (*v1.Review, error) {
	r, err := scanReviewRow(a.db.QueryRowContext(ctx, queryGetReview, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return r, nil
}

// FindReview looks up the unique review one user wrote for one product.
func (a *ReviewAdapter) FindReview(ctx context.Context, userID, productID string) (*v1.Review, error) {
	r, err := scanReviewRow(a.db.QueryRowContext(ctx, queryFindReview, userID, productID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return r, nil
}

func (a *ReviewAdapter) ListReviewsByProduct(ctx context.Context, productID string) ([]*v1.Review, error) {
	rows, err := a.db.QueryContext(ctx, queryListReviewsByProduct, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*v1.Review
	for rows.Next() {
		r, err := scanReviewRow(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}
