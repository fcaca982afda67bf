// Package catalog owns products, their photos, and the review subsystem.
// Every read goes through the cache; every mutation invalidates the key
// families it touched after the store write commits.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/cache"
	"github.com/shopcore-lab/shopcore/internal/core/analytics"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
	"github.com/shopcore-lab/shopcore/internal/media"
)

const latestProductCount = 4

type Service struct {
	products storage.ProductStore
	reviews  storage.ReviewStore
	orders   storage.OrderStore
	users    storage.UserStore
	media    media.Storage
	cache    *cache.Client
	inv      *cache.Invalidator

	pageSize  int
	maxPhotos int
	nowFn     func() time.Time
}

func NewService(
	products storage.ProductStore,
	reviews storage.ReviewStore,
	orders storage.OrderStore,
	users storage.UserStore,
	mediaStore media.Storage,
	cacheClient *cache.Client,
	inv *cache.Invalidator,
	pageSize, maxPhotos int,
) *Service {
	return &Service{
		products:  products,
		reviews:   reviews,
		orders:    orders,
		users:     users,
		media:     mediaStore,
		cache:     cacheClient,
		inv:       inv,
		pageSize:  pageSize,
		maxPhotos: maxPhotos,
		nowFn:     time.Now,
	}
}

// Create validates, uploads the photos, stores the product and invalidates
// the product and admin key families.
func (s *Service) Create(ctx context.Context, input NewProductInput) (*v1.Product, error) {
	if err := s.validateNewProduct(input); err != nil {
		return nil, err
	}

	photos, err := s.media.Upload(ctx, input.Photos)
	if err != nil {
		return nil, fmt.Errorf("%w: photo upload failed: %v", httperr.ErrUpstream, err)
	}

	product := &v1.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Category:    strings.ToLower(input.Category),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Photos:      photos,
		Ratings:     decimal.Zero,
		CreatedAt:   s.nowFn().UTC(),
	}

	if err := s.products.SaveProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	slog.Info("[Catalog] Product created", "product_id", product.ID, "category", product.Category)
	s.inv.Invalidate(ctx, cache.Event{Product: true, Admin: true})
	return product, nil
}

func (s *Service) validateNewProduct(input NewProductInput) error {
	if len(input.Photos) == 0 {
		return fmt.Errorf("%w: at least one photo is required", httperr.ErrValidation)
	}
	if len(input.Photos) > s.maxPhotos {
		return fmt.Errorf("%w: at most %d photos are allowed", httperr.ErrValidation, s.maxPhotos)
	}
	if input.Name == "" || input.Category == "" || input.Description == "" {
		return fmt.Errorf("%w: name, category and description are required", httperr.ErrValidation)
	}
	if !input.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", httperr.ErrValidation)
	}
	if input.Stock <= 0 {
		return fmt.Errorf("%w: stock must be positive", httperr.ErrValidation)
	}
	return nil
}

// Latest returns the top rated products, read through latest-products.
func (s *Service) Latest(ctx context.Context) ([]*v1.Product, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyLatestProducts, 0, func(ctx context.Context) ([]*v1.Product, error) {
		return s.products.TopRatedProducts(ctx, latestProductCount)
	})
}

// Categories returns the distinct category names, read through categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyCategories, 0, func(ctx context.Context) ([]string, error) {
		return s.products.ProductCategories(ctx)
	})
}

// AdminList returns every product, read through all-products.
func (s *Service) AdminList(ctx context.Context) ([]*v1.Product, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyAllProducts, 0, func(ctx context.Context) ([]*v1.Product, error) {
		return s.products.ListProducts(ctx)
	})
}

// Get returns one product, read through product-{id}.
func (s *Service) Get(ctx context.Context, id string) (*v1.Product, error) {
	product, err := cache.GetOrCompute(ctx, s.cache, cache.ProductKey(id), 0, func(ctx context.Context) (*v1.Product, error) {
		return s.products.GetProduct(ctx, id)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: product %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Search returns one listing page, read through the parameterized listing
// key with the short listing TTL: listings churn too fast for the 4h default.
func (s *Service) Search(ctx context.Context, q ListingQuery) (*ListingResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	priceMax := decimal.Zero
	if q.Price != "" {
		var err error
		priceMax, err = decimal.NewFromString(q.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid price %q", httperr.ErrValidation, q.Price)
		}
	}

	key := cache.ListingKey(q.Search, q.Sort, q.Category, q.Price, q.Page)
	return cache.GetOrCompute(ctx, s.cache, key, s.cache.ListingTTL(), func(ctx context.Context) (*ListingResult, error) {
		products, total, err := s.products.SearchProducts(ctx, storage.ProductQuery{
			Search:   q.Search,
			Sort:     q.Sort,
			Category: q.Category,
			PriceMax: priceMax,
			Limit:    s.pageSize,
			Offset:   (q.Page - 1) * s.pageSize,
		})
		if err != nil {
			return nil, err
		}
		totalPage := (total + int64(s.pageSize) - 1) / int64(s.pageSize)
		return &ListingResult{Products: products, TotalPage: totalPage}, nil
	})
}

// Update patches a product. New photos replace the stored set; the old
// objects are removed from media storage after the new ones land.
func (s *Service) Update(ctx context.Context, id string, input UpdateProductInput) (*v1.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: product %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if len(input.Photos) > 0 {
		if len(input.Photos) > s.maxPhotos {
			return nil, fmt.Errorf("%w: at most %d photos are allowed", httperr.ErrValidation, s.maxPhotos)
		}
		newPhotos, err := s.media.Upload(ctx, input.Photos)
		if err != nil {
			return nil, fmt.Errorf("%w: photo upload failed: %v", httperr.ErrUpstream, err)
		}
		oldIDs := photoIDs(product.Photos)
		product.Photos = newPhotos
		if len(oldIDs) > 0 {
			if err := s.media.Delete(ctx, oldIDs); err != nil {
				slog.Warn("[Catalog] Failed to delete replaced photos", "product_id", id, "error", err)
			}
		}
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Price.IsPositive() {
		product.Price = input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != "" {
		product.Category = strings.ToLower(input.Category)
	}
	if input.Description != "" {
		product.Description = input.Description
	}

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.inv.Invalidate(ctx, cache.Event{Product: true, Admin: true, ProductIDs: []string{id}})
	return product, nil
}

// Delete removes a product and its stored photos.
func (s *Service) Delete(ctx context.Context, id string) error {
	product, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: product %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	if ids := photoIDs(product.Photos); len(ids) > 0 {
		if err := s.media.Delete(ctx, ids); err != nil {
			slog.Warn("[Catalog] Failed to delete product photos", "product_id", id, "error", err)
		}
	}

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	slog.Info("[Catalog] Product deleted", "product_id", id)
	s.inv.Invalidate(ctx, cache.Event{Product: true, Admin: true, ProductIDs: []string{id}})
	return nil
}

// Reviews returns a product's reviews, read through reviews-{productId}.
func (s *Service) Reviews(ctx context.Context, productID string) ([]*v1.Review, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.ReviewsKey(productID), 0, func(ctx context.Context) ([]*v1.Review, error) {
		return s.reviews.ListReviewsByProduct(ctx, productID)
	})
}

// UpsertReview creates or replaces the caller's review of a product, then
// recomputes the product's denormalized rating. Returns true when a new
// review was created rather than an existing one updated.
func (s *Service) UpsertReview(ctx context.Context, userID, productID string, input ReviewInput) (created bool, err error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("%w: unknown user %s", httperr.ErrUnauthorized, userID)
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("%w: product %s", httperr.ErrNotFound, productID)
		}
		return false, fmt.Errorf("failed to get product: %w", err)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return false, fmt.Errorf("%w: rating must be between 1 and 5", httperr.ErrValidation)
	}

	verified, err := s.hasPurchased(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	now := s.nowFn().UTC()
	existing, err := s.reviews.FindReview(ctx, userID, productID)
	switch {
	case err == nil:
		existing.Comment = input.Comment
		existing.Rating = input.Rating
		existing.VerifiedPurchase = verified
		existing.UpdatedAt = now
		if err := s.reviews.UpdateReview(ctx, existing); err != nil {
			return false, fmt.Errorf("failed to update review: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		created = true
		review := &v1.Review{
			ID:               uuid.NewString(),
			UserID:           userID,
			ProductID:        productID,
			Comment:          input.Comment,
			Rating:           input.Rating,
			VerifiedPurchase: verified,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.reviews.SaveReview(ctx, review); err != nil {
			return false, fmt.Errorf("failed to save review: %w", err)
		}
	default:
		return false, fmt.Errorf("failed to look up review: %w", err)
	}

	if err := s.recomputeRating(ctx, productID); err != nil {
		return false, err
	}

	s.inv.Invalidate(ctx, cache.Event{Product: true, Admin: true, Review: true, ProductIDs: []string{productID}})
	return created, nil
}

// DeleteReview removes the caller's own review and recomputes the rating.
func (s *Service) DeleteReview(ctx context.Context, userID, reviewID string) error {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: unknown user %s", httperr.ErrUnauthorized, userID)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	review, err := s.reviews.GetReview(ctx, reviewID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: review %s", httperr.ErrNotFound, reviewID)
	}
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review.UserID != userID {
		return fmt.Errorf("%w: review %s belongs to another user", httperr.ErrUnauthorized, reviewID)
	}

	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := s.recomputeRating(ctx, review.ProductID); err != nil {
		return err
	}

	s.inv.Invalidate(ctx, cache.Event{Product: true, Admin: true, Review: true, ProductIDs: []string{review.ProductID}})
	return nil
}

func (s *Service) hasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to list orders: %w", err)
	}
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Service) recomputeRating(ctx context.Context, productID string) error {
	reviews, err := s.reviews.ListReviewsByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}
	rating, count := analytics.AverageRating(reviews)
	if err := s.products.SetProductRating(ctx, productID, rating, count); err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	return nil
}

func photoIDs(photos []v1.Photo) []string {
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	return ids
}
