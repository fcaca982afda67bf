package postgres

// SQL queries for the commerce collections. Listing search SQL is built
// dynamically in products_adapter.go because its predicate set varies.

const (
	productColumns = `
		id, name, category, description, price, stock,
		photos, ratings, num_reviews, created_at`

	queryInsertProduct = `
		INSERT INTO products (
			id, name, category, description, price, stock,
			photos, ratings, num_reviews, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	queryUpdateProduct = `
		UPDATE products
		SET name = $2, category = $3, description = $4,
		    price = $5, stock = $6, photos = $7
		WHERE id = $1
	`

	queryDeleteProduct = `DELETE FROM products WHERE id = $1`

	queryGetProduct = `
		SELECT` + productColumns + `
		FROM products
		WHERE id = $1
	`

	queryListProducts = `
		SELECT` + productColumns + `
		FROM products
		ORDER BY created_at DESC
	`

	queryTopRatedProducts = `
		SELECT` + productColumns + `
		FROM products
		ORDER BY ratings DESC
		LIMIT $1
	`

	queryProductCategories = `SELECT DISTINCT category FROM products ORDER BY category`

	queryCountProducts = `SELECT COUNT(*) FROM products`

	queryCountProductsInCategory = `SELECT COUNT(*) FROM products WHERE category = $1`

	queryCountOutOfStock = `SELECT COUNT(*) FROM products WHERE stock = 0`

	queryProductsCreatedBetween = `
		SELECT` + productColumns + `
		FROM products
		WHERE created_at >= $1 AND created_at <= $2
	`

	// queryReduceStock clamps at zero rather than failing the order when a
	// concurrent purchase drained the shelf.
	queryReduceStock = `
		UPDATE products
		SET stock = GREATEST(stock - $2, 0)
		WHERE id = $1
	`

	querySetProductRating = `
		UPDATE products
		SET ratings = $2, num_reviews = $3
		WHERE id = $1
	`

	userColumns = `id, name, email, photo, role, gender, dob, created_at`

	// queryInsertUser treats a replayed signup for an existing id as a
	// no-op; no rows affected signals the duplicate.
	queryInsertUser = `
		INSERT INTO users (id, name, email, photo, role, gender, dob, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	queryGetUser = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	queryListUsers = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
	`

	queryDeleteUser = `DELETE FROM users WHERE id = $1`

	queryCountUsers = `SELECT COUNT(*) FROM users`

	queryCountUsersByRole = `SELECT COUNT(*) FROM users WHERE role = $1`

	queryCountUsersByGender = `SELECT COUNT(*) FROM users WHERE gender = $1`

	queryUsersCreatedBetween = `
		SELECT ` + userColumns + `
		FROM users
		WHERE created_at >= $1 AND created_at <= $2
	`

	orderColumns = `
		id, user_id, status, shipping, items,
		subtotal, tax, shipping_charges, discount, total, created_at`

	queryInsertOrder = `
		INSERT INTO orders (
			id, user_id, status, shipping, items,
			subtotal, tax, shipping_charges, discount, total, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	queryGetOrder = `
		SELECT` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	queryDeleteOrder = `DELETE FROM orders WHERE id = $1`

	queryUpdateOrderStatus = `UPDATE orders SET status = $2 WHERE id = $1`

	queryListOrders = `
		SELECT` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
	`

	queryListOrdersByUser = `
		SELECT` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	queryLatestOrders = `
		SELECT` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`

	queryCountOrdersByStatus = `SELECT COUNT(*) FROM orders WHERE status = $1`

	queryOrdersCreatedBetween = `
		SELECT` + orderColumns + `
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
	`

	reviewColumns = `
		id, user_id, product_id, comment, rating,
		verified_purchase, created_at, updated_at`

	queryInsertReview = `
		INSERT INTO reviews (
			id, user_id, product_id, comment, rating,
			verified_purchase, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	queryUpdateReview = `
		UPDATE reviews
		SET comment = $2, rating = $3, verified_purchase = $4, updated_at = $5
		WHERE id = $1
	`

	queryDeleteReview = `DELETE FROM reviews WHERE id = $1`

	queryGetReview = `
		SELECT` + reviewColumns + `
		FROM reviews
		WHERE id = $1
	`

	queryFindReview = `
		SELECT` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND product_id = $2
	`

	queryListReviewsByProduct = `
		SELECT` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1
		ORDER BY updated_at DESC
	`

	couponColumns = `id, code, amount`

	queryInsertCoupon = `
		INSERT INTO coupons (id, code, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING
	`

	queryUpdateCoupon = `UPDATE coupons SET code = $2, amount = $3 WHERE id = $1`

	queryDeleteCoupon = `DELETE FROM coupons WHERE id = $1`

	queryGetCoupon = `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE id = $1
	`

	queryFindCouponByCode = `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE code = $1
	`

	queryListCoupons = `
		SELECT ` + couponColumns + `
		FROM coupons
		ORDER BY code
	`
)
