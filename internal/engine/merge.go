package engine

import (
	"cmp"
	"slices"

	"pair-engine/internal/model"
)

// SpanSet is an ascending list of disjoint, non-adjacent intervals.
type SpanSet []model.Interval

// Merge collapses intervals into the minimal covering SpanSet. Intervals that
// overlap or touch (next.From <= cur.To+1) become one span. The input is not
// modified.
func Merge(intervals []model.Interval) SpanSet {
	if len(intervals) == 0 {
		return SpanSet{}
	}

	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b model.Interval) int {
		return cmp.Compare(a.From, b.From)
	})

	merged := make(SpanSet, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if next.From <= cur.To.AddDays(1) {
			if next.To > cur.To {
				cur.To = next.To
			}
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}
