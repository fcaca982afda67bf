package cache

import "fmt"

// Fixed keys. Every key a read path can produce has an invalidation rule
// in Invalidator covering every mutation that can change its result.
const (
	KeyAdminStats      = "admin-stats"
	KeyAdminPieCharts  = "admin-pie-charts"
	KeyAdminBarCharts  = "admin-bar-charts"
	KeyAdminLineCharts = "admin-line-charts"

	KeyLatestProducts = "latest-products"
	KeyCategories     = "categories"
	KeyAllProducts    = "all-products"
	KeyAllOrders      = "all-orders"

	// ListingPrefix namespaces the parameterized search keys so a product
	// mutation can evict every cached page in one pattern delete.
	ListingPrefix = "products-"
)

// ProductKey is the cache key of one product's detail lookup.
func ProductKey(id string) string {
	return "product-" + id
}

// OrderKey is the cache key of one order's detail lookup.
func OrderKey(id string) string {
	return "order-" + id
}

// ReviewsKey is the cache key of a product's review list.
// Review lists are keyed by product, not review id.
func ReviewsKey(productID string) string {
	return "reviews-" + productID
}

// MyOrdersKey is the cache key of one user's order history.
func MyOrdersKey(userID string) string {
	return "my-orders-" + userID
}

// ListingKey builds the cache key of one page of one catalog search. Every
// filter parameter participates so distinct queries never collide.
func ListingKey(search, sort, category, priceMax string, page int) string {
	return fmt.Sprintf("%s%s-%s-%s-%s-%d", ListingPrefix, search, sort, category, priceMax, page)
}

// AdminViewKeys lists the four dashboard view keys evicted on any
// admin-visible mutation.
func AdminViewKeys() []string {
	return []string{KeyAdminStats, KeyAdminPieCharts, KeyAdminBarCharts, KeyAdminLineCharts}
}
