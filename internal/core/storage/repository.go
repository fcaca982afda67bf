package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

// ErrNotFound is returned when a lookup by identifier misses.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("record already exists")

// DateRange is an inclusive createdAt filter window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ProductQuery is the parameter set of a catalog listing search.
// Zero values mean "no constraint" for Search, Category and PriceMax.
type ProductQuery struct {
	Search   string
	Sort     string // "asc" | "dsc" | "" (unsorted)
	Category string
	PriceMax decimal.Decimal
	Limit    int
	Offset   int
}

// ProductStore is the catalog collection.
type ProductStore interface {
	SaveProduct(ctx context.Context, p *v1.Product) error
	UpdateProduct(ctx context.Context, p *v1.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*v1.Product, error)
	ListProducts(ctx context.Context) ([]*v1.Product, error)
	TopRatedProducts(ctx context.Context, limit int) ([]*v1.Product, error)
	SearchProducts(ctx context.Context, q ProductQuery) ([]*v1.Product, int64, error)
	ProductCategories(ctx context.Context) ([]string, error)
	CountProducts(ctx context.Context) (int64, error)
	CountProductsInCategory(ctx context.Context, category string) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)
	ProductsCreatedBetween(ctx context.Context, r DateRange) ([]*v1.Product, error)
	ReduceStock(ctx context.Context, productID string, quantity int64) error
	SetProductRating(ctx context.Context, productID string, rating decimal.Decimal, numReviews int64) error
}

// UserStore is the accounts collection.
type UserStore interface {
	SaveUser(ctx context.Context, u *v1.User) error
	GetUser(ctx context.Context, id string) (*v1.User, error)
	ListUsers(ctx context.Context) ([]*v1.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	CountUsersByGender(ctx context.Context, gender string) (int64, error)
	UsersCreatedBetween(ctx context.Context, r DateRange) ([]*v1.User, error)
}

// OrderStore is the orders collection.
type OrderStore interface {
	SaveOrder(ctx context.Context, o *v1.Order) error
	GetOrder(ctx context.Context, id string) (*v1.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	UpdateOrderStatus(ctx context.Context, id, status string) error
	ListOrders(ctx context.Context) ([]*v1.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*v1.Order, error)
	LatestOrders(ctx context.Context, limit int) ([]*v1.Order, error)
	CountOrdersByStatus(ctx context.Context, status string) (int64, error)
	OrdersCreatedBetween(ctx context.Context, r DateRange) ([]*v1.Order, error)
}

// ReviewStore is the reviews collection.
type ReviewStore interface {
	SaveReview(ctx context.Context, r *v1.Review) error
	UpdateReview(ctx context.Context, r *v1.Review) error
	DeleteReview(ctx context.Context, id string) error
	GetReview(ctx context.Context, id string) (*v1.Review, error)
	FindReview(ctx context.Context, userID, productID string) (*v1.Review, error)
	ListReviewsByProduct(ctx context.Context, productID string) ([]*v1.Review, error)
}

// CouponStore is the coupons collection.
type CouponStore interface {
	SaveCoupon(ctx context.Context, c *v1.Coupon) error
	UpdateCoupon(ctx context.Context, c *v1.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error
	GetCoupon(ctx context.Context, id string) (*v1.Coupon, error)
	FindCouponByCode(ctx context.Context, code string) (*v1.Coupon, error)
	ListCoupons(ctx context.Context) ([]*v1.Coupon, error)
}
