package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

// ProductAdapter implements storage.ProductStore for PostgreSQL.
type ProductAdapter struct {
	db *sql.DB
}

// NewProductAdapter creates a product store sharing the adapter's pool.
func NewProductAdapter(db *sql.DB) *ProductAdapter {
	return &ProductAdapter{db: db}
}

func (a *ProductAdapter) SaveProduct(ctx context.Context, p *v1.Product) error {
	photosJSON, err := marshalPhotosJSON(p.Photos)
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, queryInsertProduct,
		p.ID, p.Name, p.Category, p.Description, p.Price, p.Stock,
		photosJSON, p.Ratings, p.NumReviews, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (a *ProductAdapter) UpdateProduct(ctx context.Context, p *v1.Product) error {
	photosJSON, err := marshalPhotosJSON(p.Photos)
	if err != nil {
		return err
	}

	res, err := a.db.ExecContext(ctx, queryUpdateProduct,
		p.ID, p.Name, p.Category, p.Description, p.Price, p.Stock, photosJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRowAffected(res)
}

func (a *ProductAdapter) DeleteProduct(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, queryDeleteProduct, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRowAffected(res)
}

func (a *ProductAdapter) GetProduct(ctx context.Context, id string) (*v1.Product, error) {
	p, err := scanProductRow(a.db.QueryRowContext(ctx, queryGetProduct, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (a *ProductAdapter) ListProducts(ctx context.Context) ([]*v1.Product, error) {
	return a.queryProducts(ctx, queryListProducts)
}

func (a *ProductAdapter) TopRatedProducts(ctx context.Context, limit int) ([]*v1.Product, error) {
	return a.queryProducts(ctx, queryTopRatedProducts, limit)
}

// SearchProducts runs a filtered, sorted, paginated catalog query and
// returns the page plus the total number of matching products.
// The WHERE clause is assembled per-request; every value goes through a
// placeholder, never string concatenation.
func (a *ProductAdapter) SearchProducts(ctx context.Context, q storage.ProductQuery) ([]*v1.Product, int64, error) {
	var (
		predicates []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Search != "" {
		predicates = append(predicates, "name ILIKE "+arg("%"+q.Search+"%"))
	}
	if q.Category != "" {
		predicates = append(predicates, "category = "+arg(q.Category))
	}
	if !q.PriceMax.IsZero() {
		predicates = append(predicates, "price <= "+arg(q.PriceMax))
	}

	where := ""
	if len(predicates) > 0 {
		where = " WHERE " + strings.Join(predicates, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM products" + where
	if err := a.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count matching products: %w", err)
	}

	order := ""
	switch q.Sort {
	case "asc":
		order = " ORDER BY price ASC"
	case "dsc":
		order = " ORDER BY price DESC"
	}

	pageQuery := "SELECT" + productColumns + " FROM products" + where + order +
		" LIMIT " + arg(q.Limit) + " OFFSET " + arg(q.Offset)

	products, err := a.queryProducts(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (a *ProductAdapter) ProductCategories(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, queryProductCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (a *ProductAdapter) CountProducts(ctx context.Context) (int64, error) {
	return a.count(ctx, queryCountProducts)
}

func (a *ProductAdapter) CountProductsInCategory(ctx context.Context, category string) (int64, error) {
	return a.count(ctx, queryCountProductsInCategory, category)
}

func (a *ProductAdapter) CountOutOfStock(ctx context.Context) (int64, error) {
	return a.count(ctx, queryCountOutOfStock)
}

func (a *ProductAdapter) ProductsCreatedBetween(ctx context.Context, r storage.DateRange) ([]*v1.Product, error) {
	return a.queryProducts(ctx, queryProductsCreatedBetween, r.Start, r.End)
}

func (a *ProductAdapter) ReduceStock(ctx context.Context, productID string, quantity int64) error {
	res, err := a.db.ExecContext(ctx, queryReduceStock, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to reduce stock: %w", err)
	}
	return requireRowAffected(res)
}

func (a *ProductAdapter) SetProductRating(ctx context.Context, productID string, rating decimal.Decimal, numReviews int64) error {
	res, err := a.db.ExecContext(ctx, querySetProductRating, productID, rating, numReviews)
	if err != nil {
		return fmt.Errorf("failed to set product rating: %w", err)
	}
	return requireRowAffected(res)
}

func (a *ProductAdapter) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*v1.Product, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*v1.Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (a *ProductAdapter) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

// requireRowAffected maps a zero-row update or delete to ErrNotFound.
func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
