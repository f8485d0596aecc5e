package dashboard

import (
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/metrics"
)

const noData = "no data"

// TermsTable lists the term rows. A non-nil overall adds an all-terms
// summary row.
func TermsTable(t metrics.TermTable, overall *metrics.TermMetrics) *engine.TableData {
	b := engine.NewTable("Metrics by Term",
		engine.TextColumn("term", "Term"),
		engine.TextColumn("year", "Year"),
		engine.TextColumn("season", "Season"),
		engine.NumberColumn("applications", "Applications"),
		engine.NumberColumn("admitted", "Admitted"),
		engine.NumberColumn("enrolled", "Enrolled"),
		engine.PercentColumn("admit_rate", "Admit Rate"),
		engine.PercentColumn("yield", "Yield"),
		engine.PercentColumn("retention", "Retention Rate"),
		engine.PercentColumn("satisfaction", "Satisfaction"),
	)
	for _, r := range t.Rows {
		b.Row(
			r.Term,
			strconv.Itoa(r.Year),
			r.Season.String(),
			count(r.Applications),
			count(r.Admitted),
			count(r.Enrolled),
			pct(r.AdmitRate()),
			pct(r.Yield()),
			pct(r.RetentionRatePct),
			pct(r.SatisfactionPct),
		)
	}
	if overall == nil {
		return b.Build()
	}
	b.Total("All Terms", map[string]string{
		"applications": count(overall.Applications),
		"admitted":     count(overall.Admitted),
		"enrolled":     count(overall.Enrolled),
		"admit_rate":   pct(overall.AdmitRate()),
		"yield":        pct(overall.Yield()),
		"retention":    pct(overall.RetentionRatePct),
		"satisfaction": pct(overall.SatisfactionPct),
	})
	return b.Build()
}

// SeasonsTable lists every season; a season without records says so rather
// than showing zeros.
func SeasonsTable(t metrics.SeasonTable) *engine.TableData {
	b := engine.NewTable("Metrics by Season",
		engine.TextColumn("season", "Season"),
		engine.TextColumn("terms", "Terms"),
		engine.NumberColumn("applications", "Applications"),
		engine.NumberColumn("admitted", "Admitted"),
		engine.NumberColumn("enrolled", "Enrolled"),
		engine.PercentColumn("yield", "Yield"),
		engine.PercentColumn("retention", "Retention Rate"),
		engine.PercentColumn("satisfaction", "Satisfaction"),
	)
	for _, r := range t.Rows {
		if !r.HasData {
			b.Row(r.Season.String(), noData)
			continue
		}
		b.Row(
			r.Season.String(),
			strings.Join(r.Terms, ", "),
			count(r.Applications),
			count(r.Admitted),
			count(r.Enrolled),
			pct(r.Yield()),
			pct(r.RetentionRatePct),
			pct(r.SatisfactionPct),
		)
	}
	return b.Build()
}

// DepartmentsTable ranks departments by enrollment.
func DepartmentsTable(t metrics.DepartmentTable) *engine.TableData {
	b := engine.NewTable("Enrollment by Department",
		engine.TextColumn("department", "Department"),
		engine.NumberColumn("enrolled", "Enrolled"),
		engine.PercentColumn("share", "Share"),
	)
	var total int
	var seen bool
	for _, r := range t.Ranked() {
		b.Row(string(r.Department), count(r.Enrolled), pct(r.SharePct))
		if r.Enrolled.Valid {
			total += r.Enrolled.Int
			seen = true
		}
	}
	totalCell := engine.NoValue
	if seen {
		totalCell = engine.FormatInt(total)
	}
	b.Total("Total", map[string]string{"enrolled": totalCell})
	return b.Build()
}

// TrendTable is the year x department pivot of the trend rows.
func TrendTable(trend []metrics.DepartmentYearTrend) *engine.TableData {
	cols := []engine.Column{engine.TextColumn("year", "Year")}
	for _, d := range metrics.Departments {
		cols = append(cols, engine.NumberColumn(d.Key(), string(d)))
	}
	b := engine.NewTable("Department Enrollment by Year", cols...)

	col := make(map[metrics.Department]int, len(metrics.Departments))
	for i, d := range metrics.Departments {
		col[d] = i + 1
	}

	var row []string
	year := -1
	for _, t := range trend {
		if t.Year != year {
			if row != nil {
				b.Row(row...)
			}
			year = t.Year
			row = make([]string, len(cols))
			row[0] = strconv.Itoa(year)
		}
		row[col[t.Department]] = count(t.Enrolled)
	}
	if row != nil {
		b.Row(row...)
	}
	return b.Build()
}

func count(v null.Int) string {
	return engine.FormatOptional(float64(v.Int), v.Valid, engine.FormatCount)
}

func pct(v null.Float64) string {
	return engine.FormatOptional(v.Float64, v.Valid, engine.FormatPercent)
}
