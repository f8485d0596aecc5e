package metrics

import (
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/schema"
)

// AllTerms is the filter sentinel meaning "no term filtering".
const AllTerms = "All"

// TermMetrics is one aggregated row: counts are summed and rates are the
// unweighted mean of the present values.
type TermMetrics struct {
	Term             string       `json:"term"`
	Year             int          `json:"year"`
	Season           Season       `json:"season"`
	Records          int          `json:"records"`
	Applications     null.Int     `json:"applications"`
	Admitted         null.Int     `json:"admitted"`
	Enrolled         null.Int     `json:"enrolled"`
	RetentionRatePct null.Float64 `json:"retentionRatePct"`
	SatisfactionPct  null.Float64 `json:"satisfactionPct"`
}

// AdmitRate is admitted as a percentage of applications.
func (t TermMetrics) AdmitRate() null.Float64 {
	return ratio(t.Admitted, t.Applications)
}

// Yield is enrolled as a percentage of admitted.
func (t TermMetrics) Yield() null.Float64 {
	return ratio(t.Enrolled, t.Admitted)
}

func ratio(num, den null.Int) null.Float64 {
	if !num.Valid || !den.Valid || den.Int == 0 {
		return null.Float64{}
	}
	return null.Float64From(float64(num.Int) / float64(den.Int) * 100)
}

// TermTable is the result of AggregateByTerm.
type TermTable struct {
	Rows     []TermMetrics `json:"rows"`
	Warnings []error       `json:"-"`
}

// AggregateByTerm groups records by exact term label. Rows from different
// years that share a label are merged into one row; the row carries the
// latest of those years and a TermYearCollisionWarning is attached.
// Empty input yields an empty table.
func (e *Engine) AggregateByTerm(records []StudentTermRecord, order Ordering) TermTable {
	view := bind(records)
	groups := engine.GroupBy(view, schema.KeyTerm)

	table := TermTable{Rows: make([]TermMetrics, 0, len(groups))}
	for _, g := range groups {
		row := summarize(g.View)
		row.Term = g.Key
		row.Season = ClassifySeason(g.Key)

		years := groupYears(g.View)
		row.Year = years[len(years)-1]
		if len(years) > 1 {
			table.Warnings = append(table.Warnings, &TermYearCollisionWarning{Term: g.Key, Years: years})
		}
		table.Rows = append(table.Rows, row)
	}

	e.SortTerms(table.Rows, order)

	e.log.Debug("aggregated by term",
		zap.Int("records", len(records)),
		zap.Int("terms", len(table.Rows)),
		zap.Stringer("order", order))

	return table
}

// SortTerms orders rows in place.
func (e *Engine) SortTerms(rows []TermMetrics, order Ordering) {
	switch order {
	case Lexical:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Term < rows[j].Term })
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return e.keyOf(rows[i].Year, rows[i].Term).before(e.keyOf(rows[j].Year, rows[j].Term))
		})
	}
}

// LatestTerm returns the chronologically latest row by (year, season
// ordinal), regardless of the order rows are in.
func (e *Engine) LatestTerm(rows []TermMetrics) (TermMetrics, error) {
	if len(rows) == 0 {
		return TermMetrics{}, &EmptyInputError{Operation: "latest term"}
	}
	latest := rows[0]
	for _, r := range rows[1:] {
		if e.keyOf(latest.Year, latest.Term).before(e.keyOf(r.Year, r.Term)) {
			latest = r
		}
	}
	return latest, nil
}

// Overall aggregates every record into a single row labelled AllTerms,
// carrying the latest year present.
func (e *Engine) Overall(records []StudentTermRecord) (TermMetrics, error) {
	if len(records) == 0 {
		return TermMetrics{}, &EmptyInputError{Operation: "overall metrics"}
	}
	view := bind(records)
	row := summarize(view)
	row.Term = AllTerms
	row.Season = Other
	years := groupYears(view)
	row.Year = years[len(years)-1]
	return row, nil
}

// Terms returns the distinct term labels in chronological order.
func (e *Engine) Terms(records []StudentTermRecord) []string {
	rows := e.AggregateByTerm(records, Chronological).Rows
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Term
	}
	return out
}

// TermOptions returns the values a term selector offers: AllTerms followed
// by every term in chronological order.
func (e *Engine) TermOptions(records []StudentTermRecord) []string {
	return append([]string{AllTerms}, e.Terms(records)...)
}

// ============================================================================
// SHARED AGGREGATION
// ============================================================================

// summarize applies the sum/mean rules to one group of records.
func summarize(view engine.RecordView) TermMetrics {
	return TermMetrics{
		Records:          view.Len(),
		Applications:     sumInt(view, schema.KeyApplications),
		Admitted:         sumInt(view, schema.KeyAdmitted),
		Enrolled:         sumInt(view, schema.KeyEnrolled),
		RetentionRatePct: mean(view, schema.KeyRetentionRate),
		SatisfactionPct:  mean(view, schema.KeySatisfaction),
	}
}

func sumInt(view engine.RecordView, key string) null.Int {
	agg := engine.SumMeasure(view, key)
	if !agg.Valid {
		return null.Int{}
	}
	return null.IntFrom(int(math.Round(agg.Value)))
}

func mean(view engine.RecordView, key string) null.Float64 {
	agg := engine.AvgMeasure(view, key)
	if !agg.Valid {
		return null.Float64{}
	}
	return null.Float64From(agg.Value)
}

// groupYears returns the distinct years in a non-empty view, ascending.
func groupYears(view engine.RecordView) []int {
	var years []int
	for _, y := range engine.UniqueValues(view, dimYear) {
		n, err := strconv.Atoi(y)
		if err == nil {
			years = append(years, n)
		}
	}
	slices.Sort(years)
	return years
}
