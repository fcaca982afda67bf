package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stamped struct {
	at    time.Time
	total decimal.Decimal
}

func stampedAt(t time.Time) stamped { return stamped{at: t} }

func recTime(r stamped) time.Time { return r.at }

func recTotal(r stamped) decimal.Decimal { return r.total }

func TestMonthlyBuckets(t *testing.T) {
	reference := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		records    []stamped
		windowLen  int
		wantCounts []int64
	}{
		{
			name:       "empty input yields zero buckets",
			records:    nil,
			windowLen:  6,
			wantCounts: []int64{0, 0, 0, 0, 0, 0},
		},
		{
			name: "current month lands in last bucket",
			records: []stamped{
				stampedAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
			},
			windowLen:  6,
			wantCounts: []int64{0, 0, 0, 0, 0, 1},
		},
		{
			name: "oldest in-window month lands in first bucket",
			records: []stamped{
				stampedAt(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)),
			},
			windowLen:  6,
			wantCounts: []int64{0, 1, 0, 0, 0, 0},
		},
		{
			name: "record outside window is dropped",
			records: []stamped{
				stampedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			},
			windowLen:  6,
			wantCounts: []int64{0, 0, 0, 0, 0, 0},
		},
		{
			name: "year boundary wraps via modulo",
			records: []stamped{
				stampedAt(time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)),
			},
			windowLen:  12,
			wantCounts: []int64{0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "multiple records accumulate per bucket",
			records: []stamped{
				stampedAt(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)),
				stampedAt(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)),
				stampedAt(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)),
			},
			windowLen:  6,
			wantCounts: []int64{0, 0, 0, 0, 2, 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buckets := MonthlyBuckets(tc.records, tc.windowLen, reference, recTime, nil)
			require.Len(t, buckets, tc.windowLen)
			require.Equal(t, tc.wantCounts, Counts(buckets))
		})
	}
}

func TestMonthlyBucketsSums(t *testing.T) {
	reference := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	records := []stamped{
		{at: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), total: decimal.NewFromInt(100)},
		{at: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), total: decimal.NewFromFloat(49.99)},
		{at: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), total: decimal.NewFromInt(10)},
	}

	buckets := MonthlyBuckets(records, 6, reference, recTime, recTotal)

	sums := Sums(buckets)
	require.True(t, sums[5].Equal(decimal.NewFromFloat(149.99)), "got %s", sums[5])
	require.True(t, sums[3].Equal(decimal.NewFromInt(10)), "got %s", sums[3])
	require.True(t, sums[0].IsZero())
	require.Equal(t, []int64{0, 0, 0, 1, 0, 2}, Counts(buckets))
}

func TestMonthRanges(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), MonthStart(now))

	start, end := LastMonthRange(now)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)

	require.Equal(t, time.Date(2023, 9, 15, 10, 30, 0, 0, time.UTC), MonthsAgo(now, 6))
}
