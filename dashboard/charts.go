package dashboard

import (
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/metrics"
)

// funnelChart plots applications, admitted and enrolled per term.
func funnelChart(t metrics.TermTable) *engine.ChartConfig {
	cells := make([]engine.PivotPoint, 0, len(t.Rows)*3)
	for _, r := range t.Rows {
		cells = append(cells,
			intCell("Applications", r.Term, r.Applications),
			intCell("Admitted", r.Term, r.Admitted),
			intCell("Enrolled", r.Term, r.Enrolled),
		)
	}
	return engine.BuildChart(engine.ChartSpec{
		Type:  engine.ChartGroupedBar,
		Title: "Admissions Funnel by Term",
		XAxis: "Term",
		YAxis: "Students",
	}, engine.PivotSeries(cells)...)
}

// ratesChart plots retention and satisfaction over terms.
func ratesChart(t metrics.TermTable) *engine.ChartConfig {
	cells := make([]engine.PivotPoint, 0, len(t.Rows)*2)
	for _, r := range t.Rows {
		cells = append(cells,
			floatCell("Retention Rate", r.Term, r.RetentionRatePct),
			floatCell("Satisfaction", r.Term, r.SatisfactionPct),
		)
	}
	return engine.BuildChart(engine.ChartSpec{
		Type:  engine.ChartLine,
		Title: "Retention and Satisfaction by Term",
		XAxis: "Term",
		YAxis: "%",
	}, engine.PivotSeries(cells)...)
}

// ratesScatter places each term at (retention, satisfaction). Terms missing
// either rate are left out.
func ratesScatter(t metrics.TermTable) *engine.ChartConfig {
	points := []engine.ChartPoint{}
	for _, r := range t.Rows {
		if !r.RetentionRatePct.Valid || !r.SatisfactionPct.Valid {
			continue
		}
		points = append(points, engine.XYPoint(r.Term, r.RetentionRatePct.Float64, r.SatisfactionPct.Float64))
	}
	return engine.BuildChart(engine.ChartSpec{
		Type:  engine.ChartScatter,
		Title: "Retention vs Satisfaction",
		XAxis: "Retention Rate (%)",
		YAxis: "Satisfaction (%)",
	}, engine.ChartSeries{Name: "Terms", Data: points})
}

// departmentPie shows each department's share of enrollment.
func departmentPie(t metrics.DepartmentTable) *engine.ChartConfig {
	points := []engine.ChartPoint{}
	for _, r := range t.Rows {
		if !r.Enrolled.Valid {
			continue
		}
		points = append(points, engine.Point(string(r.Department), float64(r.Enrolled.Int)))
	}
	return engine.BuildChart(engine.ChartSpec{
		Type:  engine.ChartPie,
		Title: "Enrollment by Department",
	}, engine.ChartSeries{Name: "Enrolled", Data: points})
}

// departmentTrendChart draws one line per department across years.
func departmentTrendChart(trend []metrics.DepartmentYearTrend) *engine.ChartConfig {
	cells := make([]engine.PivotPoint, 0, len(trend))
	for _, t := range trend {
		cells = append(cells, intCell(string(t.Department), strconv.Itoa(t.Year), t.Enrolled))
	}
	return engine.BuildChart(engine.ChartSpec{
		Type:  engine.ChartLine,
		Title: "Department Enrollment by Year",
		XAxis: "Year",
		YAxis: "Enrolled",
	}, engine.PivotSeries(cells)...)
}

// seasonalChart compares Spring and Fall enrollment per term. Each side is
// its own series, so one empty side leaves the other intact.
func seasonalChart(cmp metrics.SeasonalComparison) *engine.ChartConfig {
	side := func(name string, t metrics.TermTable) engine.ChartSeries {
		s := engine.ChartSeries{Name: name, Data: []engine.ChartPoint{}}
		for _, r := range t.Rows {
			if r.Enrolled.Valid {
				s.Data = append(s.Data, engine.Point(r.Term, float64(r.Enrolled.Int)))
			}
		}
		return s
	}
	return engine.BuildChart(engine.ChartSpec{
		Type:  engine.ChartGroupedBar,
		Title: "Spring vs Fall Enrollment",
		XAxis: "Term",
		YAxis: "Enrolled",
	}, side(metrics.Spring.String(), cmp.Spring), side(metrics.Fall.String(), cmp.Fall))
}

func intCell(series, label string, v null.Int) engine.PivotPoint {
	return engine.PivotPoint{Series: series, Label: label, Value: float64(v.Int), Valid: v.Valid}
}

func floatCell(series, label string, v null.Float64) engine.PivotPoint {
	return engine.PivotPoint{Series: series, Label: label, Value: v.Float64, Valid: v.Valid}
}
