// Package dashboard computes the four admin analytics views. Each view is
// one cached JSON blob: the miss path fans out its range and count queries
// concurrently, joins them all-or-nothing, folds the records through the
// analytics package and writes the result back with the default TTL.
package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/cache"
	"github.com/shopcore-lab/shopcore/internal/core/analytics"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

const latestTransactionCount = 4

type Service struct {
	products storage.ProductStore
	users    storage.UserStore
	orders   storage.OrderStore
	cache    *cache.Client
	nowFn    func() time.Time
}

func NewService(products storage.ProductStore, users storage.UserStore, orders storage.OrderStore, cacheClient *cache.Client) *Service {
	return &Service{
		products: products,
		users:    users,
		orders:   orders,
		cache:    cacheClient,
		nowFn:    time.Now,
	}
}

// Stats returns the admin-stats view.
func (s *Service) Stats(ctx context.Context) (*StatsResult, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyAdminStats, 0, s.computeStats)
}

// Pie returns the admin-pie-charts view.
func (s *Service) Pie(ctx context.Context) (*PieResult, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyAdminPieCharts, 0, s.computePie)
}

// Bar returns the admin-bar-charts view.
func (s *Service) Bar(ctx context.Context) (*BarResult, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyAdminBarCharts, 0, s.computeBar)
}

// Line returns the admin-line-charts view.
func (s *Service) Line(ctx context.Context) (*LineResult, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyAdminLineCharts, 0, s.computeLine)
}

func (s *Service) computeStats(ctx context.Context) (*StatsResult, error) {
	now := s.nowFn().UTC()
	thisMonth := storage.DateRange{Start: analytics.MonthStart(now), End: now}
	lastStart, lastEnd := analytics.LastMonthRange(now)
	lastMonth := storage.DateRange{Start: lastStart, End: lastEnd}
	sixMonths := storage.DateRange{Start: analytics.MonthsAgo(now, 6), End: now}

	var (
		thisMonthProducts, lastMonthProducts []*v1.Product
		thisMonthUsers, lastMonthUsers       []*v1.User
		thisMonthOrders, lastMonthOrders     []*v1.Order
		allOrders, sixMonthOrders, latest    []*v1.Order
		productCount, userCount              int64
		maleCount, femaleCount               int64
		categories                           []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { thisMonthProducts, err = s.products.ProductsCreatedBetween(gctx, thisMonth); return })
	g.Go(func() (err error) { lastMonthProducts, err = s.products.ProductsCreatedBetween(gctx, lastMonth); return })
	g.Go(func() (err error) { thisMonthUsers, err = s.users.UsersCreatedBetween(gctx, thisMonth); return })
	g.Go(func() (err error) { lastMonthUsers, err = s.users.UsersCreatedBetween(gctx, lastMonth); return })
	g.Go(func() (err error) { thisMonthOrders, err = s.orders.OrdersCreatedBetween(gctx, thisMonth); return })
	g.Go(func() (err error) { lastMonthOrders, err = s.orders.OrdersCreatedBetween(gctx, lastMonth); return })
	g.Go(func() (err error) { allOrders, err = s.orders.ListOrders(gctx); return })
	g.Go(func() (err error) { sixMonthOrders, err = s.orders.OrdersCreatedBetween(gctx, sixMonths); return })
	g.Go(func() (err error) { latest, err = s.orders.LatestOrders(gctx, latestTransactionCount); return })
	g.Go(func() (err error) { productCount, err = s.products.CountProducts(gctx); return })
	g.Go(func() (err error) { userCount, err = s.users.CountUsers(gctx); return })
	g.Go(func() (err error) { maleCount, err = s.users.CountUsersByGender(gctx, "Male"); return })
	g.Go(func() (err error) { femaleCount, err = s.users.CountUsersByGender(gctx, "Female"); return })
	g.Go(func() (err error) { categories, err = s.products.ProductCategories(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	categoryCount, err := s.categoryShares(ctx, categories, productCount)
	if err != nil {
		return nil, err
	}

	orderBuckets := analytics.MonthlyBuckets(sixMonthOrders, 6, now, orderCreatedAt, orderTotal)

	transactions := make([]Transaction, 0, len(latest))
	for _, o := range latest {
		transactions = append(transactions, Transaction{
			ID:       o.ID,
			Discount: o.Discount,
			Amount:   o.Total,
			Quantity: len(o.Items),
			Status:   o.Status,
		})
	}

	return &StatsResult{
		ChangePercent: ChangePercent{
			Revenue: analytics.PercentChange(analytics.SumTotals(thisMonthOrders), analytics.SumTotals(lastMonthOrders)),
			Product: analytics.PercentChange(countOf(len(thisMonthProducts)), countOf(len(lastMonthProducts))),
			User:    analytics.PercentChange(countOf(len(thisMonthUsers)), countOf(len(lastMonthUsers))),
			Order:   analytics.PercentChange(countOf(len(thisMonthOrders)), countOf(len(lastMonthOrders))),
		},
		Count: Totals{
			Revenue: analytics.SumTotals(allOrders),
			User:    userCount,
			Product: productCount,
			Order:   int64(len(allOrders)),
		},
		Chart: OrderChart{
			Order:   analytics.Counts(orderBuckets),
			Revenue: analytics.Sums(orderBuckets),
		},
		CategoryCount:     categoryCount,
		UserRatio:         GenderRatio{Male: maleCount, Female: femaleCount},
		LatestTransaction: transactions,
	}, nil
}

func (s *Service) computePie(ctx context.Context) (*PieResult, error) {
	now := s.nowFn().UTC()

	var (
		processing, shipped, delivered int64
		productCount, outOfStock       int64
		adminCount, customerCount      int64
		categories                     []string
		allOrders                      []*v1.Order
		allUsers                       []*v1.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { processing, err = s.orders.CountOrdersByStatus(gctx, v1.StatusProcessing); return })
	g.Go(func() (err error) { shipped, err = s.orders.CountOrdersByStatus(gctx, v1.StatusShipped); return })
	g.Go(func() (err error) { delivered, err = s.orders.CountOrdersByStatus(gctx, v1.StatusDelivered); return })
	g.Go(func() (err error) { categories, err = s.products.ProductCategories(gctx); return })
	g.Go(func() (err error) { productCount, err = s.products.CountProducts(gctx); return })
	g.Go(func() (err error) { outOfStock, err = s.products.CountOutOfStock(gctx); return })
	g.Go(func() (err error) { allOrders, err = s.orders.ListOrders(gctx); return })
	g.Go(func() (err error) { allUsers, err = s.users.ListUsers(gctx); return })
	g.Go(func() (err error) { adminCount, err = s.users.CountUsersByRole(gctx, v1.RoleAdmin); return })
	g.Go(func() (err error) { customerCount, err = s.users.CountUsersByRole(gctx, v1.RoleCustomer); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	productCategories, err := s.categoryShares(ctx, categories, productCount)
	if err != nil {
		return nil, err
	}

	return &PieResult{
		OrderFulfillment: OrderFulfillment{
			Processing: processing,
			Shipped:    shipped,
			Delivered:  delivered,
		},
		ProductCategories: productCategories,
		StockAvailability: StockAvailability{
			InStock:    productCount - outOfStock,
			OutOfStock: outOfStock,
		},
		RevenueDistribution: analytics.BreakdownRevenue(allOrders),
		UsersAgeGroup: analytics.GroupByAge(allUsers, func(u *v1.User) int {
			return u.Age(now)
		}),
		AdminCustomer: RoleRatio{Admin: adminCount, Customer: customerCount},
	}, nil
}

func (s *Service) computeBar(ctx context.Context) (*BarResult, error) {
	now := s.nowFn().UTC()
	sixMonths := storage.DateRange{Start: analytics.MonthsAgo(now, 6), End: now}
	twelveMonths := storage.DateRange{Start: analytics.MonthsAgo(now, 12), End: now}

	var (
		products []*v1.Product
		users    []*v1.User
		orders   []*v1.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { products, err = s.products.ProductsCreatedBetween(gctx, sixMonths); return })
	g.Go(func() (err error) { users, err = s.users.UsersCreatedBetween(gctx, sixMonths); return })
	g.Go(func() (err error) { orders, err = s.orders.OrdersCreatedBetween(gctx, twelveMonths); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BarResult{
		Users:    analytics.Counts(analytics.MonthlyBuckets(users, 6, now, userCreatedAt, nil)),
		Products: analytics.Counts(analytics.MonthlyBuckets(products, 6, now, productCreatedAt, nil)),
		Orders:   analytics.Counts(analytics.MonthlyBuckets(orders, 12, now, orderCreatedAt, nil)),
	}, nil
}

func (s *Service) computeLine(ctx context.Context) (*LineResult, error) {
	now := s.nowFn().UTC()
	twelveMonths := storage.DateRange{Start: analytics.MonthsAgo(now, 12), End: now}

	var (
		products []*v1.Product
		users    []*v1.User
		orders   []*v1.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { products, err = s.products.ProductsCreatedBetween(gctx, twelveMonths); return })
	g.Go(func() (err error) { users, err = s.users.UsersCreatedBetween(gctx, twelveMonths); return })
	g.Go(func() (err error) { orders, err = s.orders.OrdersCreatedBetween(gctx, twelveMonths); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &LineResult{
		Users:    analytics.Counts(analytics.MonthlyBuckets(users, 12, now, userCreatedAt, nil)),
		Products: analytics.Counts(analytics.MonthlyBuckets(products, 12, now, productCreatedAt, nil)),
		Discount: analytics.Sums(analytics.MonthlyBuckets(orders, 12, now, orderCreatedAt, orderDiscount)),
		Revenue:  analytics.Sums(analytics.MonthlyBuckets(orders, 12, now, orderCreatedAt, orderTotal)),
	}, nil
}

// categoryShares fans out one count query per category and folds the counts
// into per-category proportions of the whole catalog.
func (s *Service) categoryShares(ctx context.Context, categories []string, totalProducts int64) ([]map[string]decimal.Decimal, error) {
	counts := make([]int64, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() (err error) {
			counts[i], err = s.products.CountProductsInCategory(gctx, category)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make(map[string]int64, len(categories))
	for i, category := range categories {
		byCategory[category] = counts[i]
	}
	return analytics.CategoryShares(categories, byCategory, totalProducts), nil
}

func orderCreatedAt(o *v1.Order) time.Time     { return o.CreatedAt }
func userCreatedAt(u *v1.User) time.Time       { return u.CreatedAt }
func productCreatedAt(p *v1.Product) time.Time { return p.CreatedAt }

func orderTotal(o *v1.Order) decimal.Decimal    { return o.Total }
func orderDiscount(o *v1.Order) decimal.Decimal { return o.Discount }

func countOf(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
