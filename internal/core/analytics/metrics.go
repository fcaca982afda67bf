package analytics

import (
	"github.com/shopspring/decimal"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

var hundred = decimal.NewFromInt(100)

// PercentChange computes the relative growth from previous to current, as a
// percentage. A zero previous with nonzero current returns current*100
// rather than dividing by zero: new activity is surfaced as a large
// positive signal. Both zero returns zero.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return current.Mul(hundred)
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Share computes what fraction of whole the part is, as a percentage.
// It intentionally shares PercentChange's zero-whole behavior so the
// observable output matches the delta metric, but it is a proportion, not
// a change; don't use one where the other is meant.
func Share(part, whole decimal.Decimal) decimal.Decimal {
	return PercentChange(part, whole)
}

// AverageRating reduces review ratings into (average rounded to one decimal
// place, count). Empty input yields (0, 0).
func AverageRating(reviews []*v1.Review) (decimal.Decimal, int64) {
	if len(reviews) == 0 {
		return decimal.Zero, 0
	}
	total := decimal.Zero
	for _, r := range reviews {
		total = total.Add(decimal.NewFromInt(r.Rating))
	}
	count := int64(len(reviews))
	return total.Div(decimal.NewFromInt(count)).Round(1), count
}

// RevenueBreakdown decomposes order revenue into its margin components.
type RevenueBreakdown struct {
	NetMargin      decimal.Decimal `json:"netMargin"`
	GrossIncome    decimal.Decimal `json:"grossIncome"`
	Discount       decimal.Decimal `json:"discount"`
	ProductionCost decimal.Decimal `json:"productionCost"`
	Burnt          decimal.Decimal `json:"burnt"`
}

// BreakdownRevenue sums order totals, discounts, shipping charges and tax
// across the collection. netMargin = gross - discount - productionCost - burnt.
func BreakdownRevenue(orders []*v1.Order) RevenueBreakdown {
	b := RevenueBreakdown{
		NetMargin:      decimal.Zero,
		GrossIncome:    decimal.Zero,
		Discount:       decimal.Zero,
		ProductionCost: decimal.Zero,
		Burnt:          decimal.Zero,
	}
	for _, o := range orders {
		b.GrossIncome = b.GrossIncome.Add(o.Total)
		b.Discount = b.Discount.Add(o.Discount)
		b.ProductionCost = b.ProductionCost.Add(o.ShippingCharges)
		b.Burnt = b.Burnt.Add(o.Tax)
	}
	b.NetMargin = b.GrossIncome.Sub(b.Discount).Sub(b.ProductionCost).Sub(b.Burnt)
	return b
}

// AgeGroups is a three-way age histogram over users.
type AgeGroups struct {
	Teen  int64 `json:"teen"`
	Adult int64 `json:"adult"`
	Old   int64 `json:"old"`
}

// GroupByAge partitions users by age at the reference time:
// teen < 20, 20 <= adult <= 40, old > 40.
func GroupByAge(users []*v1.User, reference func(*v1.User) int) AgeGroups {
	var g AgeGroups
	for _, u := range users {
		switch age := reference(u); {
		case age < 20:
			g.Teen++
		case age <= 40:
			g.Adult++
		default:
			g.Old++
		}
	}
	return g
}

// SumTotals adds up the Total field of every order.
func SumTotals(orders []*v1.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// CategoryShares maps each category to its share of the total product
// count, preserving the given category order in the returned slice.
func CategoryShares(categories []string, countsByCategory map[string]int64, totalProducts int64) []map[string]decimal.Decimal {
	total := decimal.NewFromInt(totalProducts)
	out := make([]map[string]decimal.Decimal, 0, len(categories))
	for _, cat := range categories {
		out = append(out, map[string]decimal.Decimal{
			cat: Share(decimal.NewFromInt(countsByCategory[cat]), total),
		})
	}
	return out
}
