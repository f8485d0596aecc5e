package engine

import "math"

// ============================================================================
// AGGREGATORS — Grouping and Null-Aware Aggregation via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view) and preserves
// first-seen order; callers sort typed results themselves.
// ============================================================================

// GroupBy groups a view by one dimension, in first-seen key order.
func GroupBy(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

// SumMeasure sums a named measure across a view, skipping absent values.
// The result is invalid when no record carried the measure.
func SumMeasure(view RecordView, measure string) Aggregate {
	var agg Aggregate
	for i := 0; i < view.Len(); i++ {
		v, ok := view.Measure(i, measure)
		if !ok {
			continue
		}
		agg.Value += v
		agg.N++
	}
	agg.Valid = agg.N > 0
	return agg
}

// AvgMeasure computes the unweighted arithmetic mean of a named measure over
// the records that carry it.
func AvgMeasure(view RecordView, measure string) Aggregate {
	agg := SumMeasure(view, measure)
	if !agg.Valid {
		return Aggregate{}
	}
	agg.Value /= float64(agg.N)
	return agg
}

// RowSum adds the given measures of a single record. It reports false when
// any of them is absent.
func RowSum(view RecordView, i int, measures []string) (float64, bool) {
	var total float64
	for _, m := range measures {
		v, ok := view.Measure(i, m)
		if !ok {
			return 0, false
		}
		total += v
	}
	return total, true
}

// ============================================================================
// UTILITIES
// ============================================================================

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueValues returns distinct values for a dimension across a view, in
// first-seen order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
