package metrics

import "go.uber.org/zap"

// SeasonalComparison holds Spring and Fall term tables side by side. Either
// side may be empty; an empty side never hides the other.
type SeasonalComparison struct {
	Term   string    `json:"term"`
	Spring TermTable `json:"spring"`
	Fall   TermTable `json:"fall"`
}

// SeasonalComparison filters by term, splits the result by season and
// aggregates each season by term independently. Other-season terms are
// left out.
func (e *Engine) SeasonalComparison(records []StudentTermRecord, termFilter string, order Ordering) SeasonalComparison {
	filtered := FilterByTerm(records, termFilter)

	cmp := SeasonalComparison{
		Term:   termFilter,
		Spring: e.AggregateByTerm(FilterBySeason(filtered, Spring), order),
		Fall:   e.AggregateByTerm(FilterBySeason(filtered, Fall), order),
	}

	e.log.Debug("seasonal comparison",
		zap.String("term", termFilter),
		zap.Int("spring_terms", len(cmp.Spring.Rows)),
		zap.Int("fall_terms", len(cmp.Fall.Rows)))
	return cmp
}
