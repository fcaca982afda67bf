// Package storagetest provides an in-memory implementation of every store
// interface for handler and service tests.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

// DB implements ProductStore, UserStore, OrderStore, ReviewStore and
// CouponStore over maps. Listings preserve insertion order so tests can
// assert on result ordering.
type DB struct {
	mu sync.Mutex

	products     map[string]*v1.Product
	productOrder []string
	users        map[string]*v1.User
	userOrder    []string
	orders       map[string]*v1.Order
	orderOrder   []string
	reviews      map[string]*v1.Review
	reviewOrder  []string
	coupons      map[string]*v1.Coupon
	couponOrder  []string
}

func New() *DB {
	return &DB{
		products: make(map[string]*v1.Product),
		users:    make(map[string]*v1.User),
		orders:   make(map[string]*v1.Order),
		reviews:  make(map[string]*v1.Review),
		coupons:  make(map[string]*v1.Coupon),
	}
}

var _ storage.ProductStore = (*DB)(nil)
var _ storage.UserStore = (*DB)(nil)
var _ storage.OrderStore = (*DB)(nil)
var _ storage.ReviewStore = (*DB)(nil)
var _ storage.CouponStore = (*DB)(nil)

// --- products ---

func (d *DB) SaveProduct(_ context.Context, p *v1.Product) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.products[p.ID]; !ok {
		d.productOrder = append(d.productOrder, p.ID)
	}
	d.products[p.ID] = p
	return nil
}

func (d *DB) UpdateProduct(_ context.Context, p *v1.Product) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.products[p.ID]; !ok {
		return storage.ErrNotFound
	}
	d.products[p.ID] = p
	return nil
}

func (d *DB) DeleteProduct(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.products[id]; !ok {
		return storage.ErrNotFound
	}
	delete(d.products, id)
	d.productOrder = remove(d.productOrder, id)
	return nil
}

func (d *DB) GetProduct(_ context.Context, id string) (*v1.Product, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

func (d *DB) ListProducts(_ context.Context) ([]*v1.Product, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allProducts(), nil
}

func (d *DB) TopRatedProducts(_ context.Context, limit int) ([]*v1.Product, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.allProducts()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ratings.GreaterThan(out[j].Ratings)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *DB) SearchProducts(_ context.Context, q storage.ProductQuery) ([]*v1.Product, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var matched []*v1.Product
	for _, p := range d.allProducts() {
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if !q.PriceMax.IsZero() && p.Price.GreaterThan(q.PriceMax) {
			continue
		}
		matched = append(matched, p)
	}

	switch q.Sort {
	case "asc":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price.LessThan(matched[j].Price) })
	case "dsc":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price.GreaterThan(matched[j].Price) })
	}

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func (d *DB) ProductCategories(_ context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range d.productOrder {
		cat := d.products[id].Category
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out, nil
}

func (d *DB) CountProducts(_ context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.products)), nil
}

func (d *DB) CountProductsInCategory(_ context.Context, category string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, p := range d.products {
		if p.Category == category {
			n++
		}
	}
	return n, nil
}

func (d *DB) CountOutOfStock(_ context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, p := range d.products {
		if p.Stock == 0 {
			n++
		}
	}
	return n, nil
}

func (d *DB) ProductsCreatedBetween(_ context.Context, r storage.DateRange) ([]*v1.Product, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*v1.Product
	for _, p := range d.allProducts() {
		if inRange(p.CreatedAt, r) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *DB) ReduceStock(_ context.Context, productID string, quantity int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.products[productID]
	if !ok {
		return storage.ErrNotFound
	}
	p.Stock -= quantity
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (d *DB) SetProductRating(_ context.Context, productID string, rating decimal.Decimal, numReviews int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.products[productID]
	if !ok {
		return storage.ErrNotFound
	}
	p.Ratings = rating
	p.NumReviews = numReviews
	return nil
}

func (d *DB) allProducts() []*v1.Product {
	out := make([]*v1.Product, 0, len(d.productOrder))
	for _, id := range d.productOrder {
		out = append(out, d.products[id])
	}
	return out
}

// --- users ---

func (d *DB) SaveUser(_ context.Context, u *v1.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[u.ID]; ok {
		return storage.ErrDuplicate
	}
	// Mirrors the users.email unique constraint.
	for _, existing := range d.users {
		if u.Email != "" && existing.Email == u.Email {
			return fmt.Errorf("%w: users_email_key", storage.ErrDuplicate)
		}
	}
	d.userOrder = append(d.userOrder, u.ID)
	d.users[u.ID] = u
	return nil
}

func (d *DB) GetUser(_ context.Context, id string) (*v1.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (d *DB) ListUsers(_ context.Context) ([]*v1.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*v1.User, 0, len(d.userOrder))
	for _, id := range d.userOrder {
		out = append(out, d.users[id])
	}
	return out, nil
}

func (d *DB) DeleteUser(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(d.users, id)
	d.userOrder = remove(d.userOrder, id)
	return nil
}

func (d *DB) CountUsers(_ context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.users)), nil
}

func (d *DB) CountUsersByRole(_ context.Context, role string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, u := range d.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (d *DB) CountUsersByGender(_ context.Context, gender string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, u := range d.users {
		if u.Gender == gender {
			n++
		}
	}
	return n, nil
}

func (d *DB) UsersCreatedBetween(_ context.Context, r storage.DateRange) ([]*v1.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*v1.User
	for _, id := range d.userOrder {
		if u := d.users[id]; inRange(u.CreatedAt, r) {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- orders ---

func (d *DB) SaveOrder(_ context.Context, o *v1.Order) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.orders[o.ID]; !ok {
		d.orderOrder = append(d.orderOrder, o.ID)
	}
	d.orders[o.ID] = o
	return nil
}

func (d *DB) GetOrder(_ context.Context, id string) (*v1.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	o, ok := d.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return o, nil
}

func (d *DB) DeleteOrder(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.orders[id]; !ok {
		return storage.ErrNotFound
	}
	delete(d.orders, id)
	d.orderOrder = remove(d.orderOrder, id)
	return nil
}

func (d *DB) UpdateOrderStatus(_ context.Context, id, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	o, ok := d.orders[id]
	if !ok {
		return storage.ErrNotFound
	}
	o.Status = status
	return nil
}

func (d *DB) ListOrders(_ context.Context) ([]*v1.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allOrders(), nil
}

func (d *DB) ListOrdersByUser(_ context.Context, userID string) ([]*v1.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*v1.Order
	for _, o := range d.allOrders() {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (d *DB) LatestOrders(_ context.Context, limit int) ([]*v1.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.allOrders()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *DB) CountOrdersByStatus(_ context.Context, status string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, o := range d.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (d *DB) OrdersCreatedBetween(_ context.Context, r storage.DateRange) ([]*v1.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*v1.Order
	for _, o := range d.allOrders() {
		if inRange(o.CreatedAt, r) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (d *DB) allOrders() []*v1.Order {
	out := make([]*v1.Order, 0, len(d.orderOrder))
	for _, id := range d.orderOrder {
		out = append(out, d.orders[id])
	}
	return out
}

// --- reviews ---

func (d *DB) SaveReview(_ context.Context, r *v1.Review) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.reviews[r.ID]; !ok {
		d.reviewOrder = append(d.reviewOrder, r.ID)
	}
	d.reviews[r.ID] = r
	return nil
}

func (d *DB) UpdateReview(_ context.Context, r *v1.Review) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.reviews[r.ID]; !ok {
		return storage.ErrNotFound
	}
	d.reviews[r.ID] = r
	return nil
}

func (d *DB) DeleteReview(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.reviews[id]; !ok {
		return storage.ErrNotFound
	}
	delete(d.reviews, id)
	d.reviewOrder = remove(d.reviewOrder, id)
	return nil
}

func (d *DB) GetReview(_ context.Context, id string) (*v1.Review, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.reviews[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

func (d *DB) FindReview(_ context.Context, userID, productID string) (*v1.Review, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.reviewOrder {
		r := d.reviews[id]
		if r.UserID == userID && r.ProductID == productID {
			return r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (d *DB) ListReviewsByProduct(_ context.Context, productID string) ([]*v1.Review, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*v1.Review
	for _, id := range d.reviewOrder {
		if r := d.reviews[id]; r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- coupons ---

func (d *DB) SaveCoupon(_ context.Context, c *v1.Coupon) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.coupons[c.ID]; ok {
		return storage.ErrDuplicate
	}
	d.couponOrder = append(d.couponOrder, c.ID)
	d.coupons[c.ID] = c
	return nil
}

func (d *DB) UpdateCoupon(_ context.Context, c *v1.Coupon) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.coupons[c.ID]; !ok {
		return storage.ErrNotFound
	}
	d.coupons[c.ID] = c
	return nil
}

func (d *DB) DeleteCoupon(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.coupons[id]; !ok {
		return storage.ErrNotFound
	}
	delete(d.coupons, id)
	d.couponOrder = remove(d.couponOrder, id)
	return nil
}

func (d *DB) GetCoupon(_ context.Context, id string) (*v1.Coupon, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.coupons[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func (d *DB) FindCouponByCode(_ context.Context, code string) (*v1.Coupon, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.couponOrder {
		if c := d.coupons[id]; c.Code == code {
			return c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (d *DB) ListCoupons(_ context.Context) ([]*v1.Coupon, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*v1.Coupon, 0, len(d.couponOrder))
	for _, id := range d.couponOrder {
		out = append(out, d.coupons[id])
	}
	return out, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func inRange(t time.Time, r storage.DateRange) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
