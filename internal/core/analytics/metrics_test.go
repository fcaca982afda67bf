package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		want     string
	}{
		{name: "both zero", current: 0, previous: 0, want: "0"},
		{name: "growth from zero", current: 7, previous: 0, want: "700"},
		{name: "doubling", current: 20, previous: 10, want: "100"},
		{name: "decline", current: 5, previous: 10, want: "-50"},
		{name: "flat", current: 10, previous: 10, want: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PercentChange(decimal.NewFromInt(tc.current), decimal.NewFromInt(tc.previous))
			require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestShareIsAProportion(t *testing.T) {
	// Share keeps PercentChange's exact arithmetic: (3-12)/12*100 = -75.
	// The distinct name exists so callers never hand a proportion to code
	// expecting a delta, or vice versa.
	got := Share(decimal.NewFromInt(3), decimal.NewFromInt(12))
	require.True(t, got.Equal(decimal.NewFromInt(-75)), "got %s", got)

	require.True(t, Share(decimal.Zero, decimal.Zero).IsZero())
}

func TestAverageRating(t *testing.T) {
	rev := func(rating int64) *v1.Review { return &v1.Review{Rating: rating} }

	tests := []struct {
		name      string
		reviews   []*v1.Review
		wantAvg   string
		wantCount int64
	}{
		{name: "empty", reviews: nil, wantAvg: "0", wantCount: 0},
		{name: "single", reviews: []*v1.Review{rev(5)}, wantAvg: "5", wantCount: 1},
		{name: "rounds to one decimal", reviews: []*v1.Review{rev(5), rev(3), rev(4)}, wantAvg: "4", wantCount: 3},
		{name: "uneven average", reviews: []*v1.Review{rev(5), rev(4)}, wantAvg: "4.5", wantCount: 2},
		{name: "repeating decimal rounds", reviews: []*v1.Review{rev(5), rev(5), rev(4)}, wantAvg: "4.7", wantCount: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			avg, count := AverageRating(tc.reviews)
			require.True(t, avg.Equal(decimal.RequireFromString(tc.wantAvg)), "got %s want %s", avg, tc.wantAvg)
			require.Equal(t, tc.wantCount, count)
		})
	}
}

func TestBreakdownRevenue(t *testing.T) {
	orders := []*v1.Order{
		{
			Total:           decimal.NewFromInt(1000),
			Discount:        decimal.NewFromInt(50),
			ShippingCharges: decimal.NewFromInt(40),
			Tax:             decimal.NewFromInt(180),
		},
		{
			Total: decimal.NewFromInt(500),
			// remaining fields zero-valued, treated as 0
		},
	}

	b := BreakdownRevenue(orders)
	require.True(t, b.GrossIncome.Equal(decimal.NewFromInt(1500)))
	require.True(t, b.Discount.Equal(decimal.NewFromInt(50)))
	require.True(t, b.ProductionCost.Equal(decimal.NewFromInt(40)))
	require.True(t, b.Burnt.Equal(decimal.NewFromInt(180)))
	require.True(t, b.NetMargin.Equal(decimal.NewFromInt(1230)))
}

func TestGroupByAge(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	born := func(yearsAgo int) *v1.User {
		return &v1.User{DOB: now.AddDate(-yearsAgo, 0, -1)}
	}

	users := []*v1.User{born(12), born(19), born(20), born(40), born(41), born(70)}
	g := GroupByAge(users, func(u *v1.User) int { return u.Age(now) })

	require.Equal(t, AgeGroups{Teen: 2, Adult: 2, Old: 2}, g)
}

func TestCategoryShares(t *testing.T) {
	shares := CategoryShares(
		[]string{"laptop", "shoes"},
		map[string]int64{"laptop": 4, "shoes": 6},
		10,
	)
	require.Len(t, shares, 2)
	require.Contains(t, shares[0], "laptop")
	require.Contains(t, shares[1], "shoes")

	laptop := shares[0]["laptop"]
	require.True(t, laptop.Equal(decimal.NewFromInt(-60)), "got %s", laptop)
}
