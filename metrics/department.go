package metrics

import (
	"sort"
	"strconv"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/schema"
)

// DepartmentTotal is one department's summed enrollment and its share of
// all department enrollment in the same record set.
type DepartmentTotal struct {
	Department Department   `json:"department"`
	Enrolled   null.Int     `json:"enrolled"`
	SharePct   null.Float64 `json:"sharePct"`
}

// DepartmentTable is the result of DepartmentTotals.
type DepartmentTable struct {
	Rows     []DepartmentTotal         `json:"rows"`
	Warnings []*DataConsistencyWarning `json:"-"`
}

// Ranked returns the rows by enrollment, largest first. Departments
// without data sort last; ties keep the fixed department order.
func (t DepartmentTable) Ranked() []DepartmentTotal {
	out := make([]DepartmentTotal, len(t.Rows))
	copy(out, t.Rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Enrolled, out[j].Enrolled
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Int > b.Int
	})
	return out
}

// DepartmentTotals sums each department column over the records and reports
// every record whose department counts disagree with its enrolled total.
// The totals use the values as given.
func (e *Engine) DepartmentTotals(records []StudentTermRecord) DepartmentTable {
	view := bind(records)

	table := DepartmentTable{
		Rows:     make([]DepartmentTotal, 0, len(Departments)),
		Warnings: e.CheckDepartments(records),
	}

	var grand int
	for _, d := range Departments {
		total := sumInt(view, d.Key())
		if total.Valid {
			grand += total.Int
		}
		table.Rows = append(table.Rows, DepartmentTotal{Department: d, Enrolled: total})
	}
	for i := range table.Rows {
		if v := table.Rows[i].Enrolled; v.Valid && grand > 0 {
			table.Rows[i].SharePct = null.Float64From(float64(v.Int) / float64(grand) * 100)
		}
	}

	if len(table.Warnings) > 0 {
		e.log.Debug("department totals do not reconcile",
			zap.Int("records", len(records)),
			zap.Int("warnings", len(table.Warnings)))
	}
	return table
}

// CheckDepartments returns a warning for every record where all four
// department counts and the enrolled total are present and differ.
func (e *Engine) CheckDepartments(records []StudentTermRecord) []*DataConsistencyWarning {
	view := bind(records)
	keys := departmentKeys()

	var warnings []*DataConsistencyWarning
	for i := 0; i < view.Len(); i++ {
		sum, ok := engine.RowSum(view, i, keys)
		if !ok {
			continue
		}
		enrolled, ok := view.Measure(i, schema.KeyEnrolled)
		if !ok || enrolled == sum {
			continue
		}
		warnings = append(warnings, &DataConsistencyWarning{
			Row:      i + 1,
			Year:     records[i].Year,
			Term:     records[i].Term,
			Check:    CheckDepartmentSum,
			Expected: enrolled,
			Actual:   sum,
		})
	}
	return warnings
}

// DepartmentYearTrend is one (year, department) enrollment total.
type DepartmentYearTrend struct {
	Year       int        `json:"year"`
	Department Department `json:"department"`
	Enrolled   null.Int   `json:"enrolled"`
}

// DepartmentTrendByYear sums department enrollment per year. Several terms
// in one year add up; they are counts, not rates. Rows are ordered by year,
// then by the fixed department order.
func (e *Engine) DepartmentTrendByYear(records []StudentTermRecord) []DepartmentYearTrend {
	groups := engine.GroupBy(bind(records), dimYear)

	type yearGroup struct {
		year int
		view engine.RecordView
	}
	years := make([]yearGroup, 0, len(groups))
	for _, g := range groups {
		y, err := strconv.Atoi(g.Key)
		if err != nil {
			continue
		}
		years = append(years, yearGroup{year: y, view: g.View})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].year < years[j].year })

	out := make([]DepartmentYearTrend, 0, len(years)*len(Departments))
	for _, yg := range years {
		for _, d := range Departments {
			out = append(out, DepartmentYearTrend{
				Year:       yg.year,
				Department: d,
				Enrolled:   sumInt(yg.view, d.Key()),
			})
		}
	}

	e.log.Debug("department trend by year", zap.Int("years", len(years)))
	return out
}
