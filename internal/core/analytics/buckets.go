package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is one calendar-month slot of an aggregation window.
type Bucket struct {
	Count int64           `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// ValueFunc extracts the numeric contribution of a record for sum buckets.
// A nil ValueFunc aggregates counts only.
type ValueFunc[T any] func(T) decimal.Decimal

// TimeFunc extracts the bucketing timestamp of a record.
type TimeFunc[T any] func(T) time.Time

// MonthlyBuckets folds records into windowLen calendar-month buckets ending
// at the reference month. Bucket 0 is the oldest month, bucket windowLen-1
// the reference month.
//
// Month distance is (refMonth - recMonth + 12) mod 12, so a record 13 months
// old is indistinguishable from one a month old; callers must pre-filter
// records to the intended window with a date-range query.
// Records with month distance >= windowLen are dropped silently.
func MonthlyBuckets[T any](records []T, windowLen int, reference time.Time, at TimeFunc[T], value ValueFunc[T]) []Bucket {
	buckets := make([]Bucket, windowLen)
	for i := range buckets {
		buckets[i].Sum = decimal.Zero
	}

	refMonth := int(reference.Month())
	for _, rec := range records {
		monthDiff := (refMonth - int(at(rec).Month()) + 12) % 12
		if monthDiff >= windowLen {
			continue
		}
		idx := windowLen - 1 - monthDiff
		buckets[idx].Count++
		if value != nil {
			buckets[idx].Sum = buckets[idx].Sum.Add(value(rec))
		}
	}
	return buckets
}

// Counts projects the per-bucket counts.
func Counts(buckets []Bucket) []int64 {
	out := make([]int64, len(buckets))
	for i, b := range buckets {
		out[i] = b.Count
	}
	return out
}

// Sums projects the per-bucket sums.
func Sums(buckets []Bucket) []decimal.Decimal {
	out := make([]decimal.Decimal, len(buckets))
	for i, b := range buckets {
		out[i] = b.Sum
	}
	return out
}

// MonthStart returns the first instant of t's calendar month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// LastMonthRange returns the inclusive bounds of the calendar month before t:
// first day of that month through the last day before t's month begins.
func LastMonthRange(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location())
	end = MonthStart(t).AddDate(0, 0, -1)
	return start, end
}

// MonthsAgo returns t shifted back by n calendar months.
func MonthsAgo(t time.Time, n int) time.Time {
	return t.AddDate(0, -n, 0)
}
