package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/shopcore-lab/shopcore/internal/core/analytics"
)

// The view results are explicit structs rather than untyped maps so shape
// drift in a cached JSON blob fails at compile time, not in the frontend.

// ChangePercent is the month-over-month growth block of the stats view.
type ChangePercent struct {
	Revenue decimal.Decimal `json:"revenue"`
	Product decimal.Decimal `json:"product"`
	User    decimal.Decimal `json:"user"`
	Order   decimal.Decimal `json:"order"`
}

// Totals is the all-time count block of the stats view.
type Totals struct {
	Revenue decimal.Decimal `json:"revenue"`
	User    int64           `json:"user"`
	Product int64           `json:"product"`
	Order   int64           `json:"order"`
}

// OrderChart is the six-month order trend of the stats view.
type OrderChart struct {
	Order   []int64           `json:"order"`
	Revenue []decimal.Decimal `json:"revenue"`
}

// GenderRatio counts users by recorded gender.
type GenderRatio struct {
	Male   int64 `json:"male"`
	Female int64 `json:"female"`
}

// Transaction is the four-item latest-order projection of the stats view.
type Transaction struct {
	ID       string          `json:"_id"`
	Discount decimal.Decimal `json:"discount"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity"`
	Status   string          `json:"status"`
}

// StatsResult is the admin-stats view.
type StatsResult struct {
	ChangePercent     ChangePercent                `json:"changePercent"`
	Count             Totals                       `json:"count"`
	Chart             OrderChart                   `json:"chart"`
	CategoryCount     []map[string]decimal.Decimal `json:"categoryCount"`
	UserRatio         GenderRatio                  `json:"userRatio"`
	LatestTransaction []Transaction                `json:"latestTransaction"`
}

// OrderFulfillment counts orders per fulfillment status.
type OrderFulfillment struct {
	Processing int64 `json:"processing"`
	Shipped    int64 `json:"shipped"`
	Delivered  int64 `json:"delivered"`
}

// StockAvailability splits the catalog into in-stock and sold-out counts.
type StockAvailability struct {
	InStock    int64 `json:"inStock"`
	OutOfStock int64 `json:"outOfStock"`
}

// RoleRatio counts accounts by role.
type RoleRatio struct {
	Admin    int64 `json:"admin"`
	Customer int64 `json:"customer"`
}

// PieResult is the admin-pie-charts view.
type PieResult struct {
	OrderFulfillment    OrderFulfillment             `json:"orderFulfillment"`
	ProductCategories   []map[string]decimal.Decimal `json:"productCategories"`
	StockAvailability   StockAvailability            `json:"stockAvailability"`
	RevenueDistribution analytics.RevenueBreakdown   `json:"revenueDistribution"`
	UsersAgeGroup       analytics.AgeGroups          `json:"usersAgeGroup"`
	AdminCustomer       RoleRatio                    `json:"adminCustomer"`
}

// BarResult is the admin-bar-charts view: creation counts per month,
// six-month windows for products and users, twelve for orders.
type BarResult struct {
	Users    []int64 `json:"users"`
	Products []int64 `json:"products"`
	Orders   []int64 `json:"orders"`
}

// LineResult is the admin-line-charts view: twelve-month windows for all
// three entities, orders additionally summed by discount and by total.
type LineResult struct {
	Users    []int64           `json:"users"`
	Products []int64           `json:"products"`
	Discount []decimal.Decimal `json:"discount"`
	Revenue  []decimal.Decimal `json:"revenue"`
}
