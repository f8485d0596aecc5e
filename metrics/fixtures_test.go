package metrics

import "github.com/volatiletech/null/v8"

// rec builds a fully populated record. Department counts are optional; when
// given there must be four, in Departments order.
func rec(year int, term string, apps, admitted, enrolled int, retention, satisfaction float64, depts ...int) StudentTermRecord {
	r := StudentTermRecord{
		Year:             year,
		Term:             term,
		Applications:     null.IntFrom(apps),
		Admitted:         null.IntFrom(admitted),
		Enrolled:         null.IntFrom(enrolled),
		RetentionRatePct: null.Float64From(retention),
		SatisfactionPct:  null.Float64From(satisfaction),
	}
	if len(depts) == 4 {
		r.ArtsEnrolled = null.IntFrom(depts[0])
		r.ScienceEnrolled = null.IntFrom(depts[1])
		r.EngineeringEnrolled = null.IntFrom(depts[2])
		r.BusinessEnrolled = null.IntFrom(depts[3])
	}
	return r
}

// twoTerms is the Fall 2022 / Spring 2023 example dataset.
func twoTerms() []StudentTermRecord {
	return []StudentTermRecord{
		rec(2022, "Fall 2022", 30000, 18000, 7000, 85.0, 80.0, 2000, 2000, 1800, 1200),
		rec(2023, "Spring 2023", 29400, 17100, 6980, 89.2, 85.2, 2100, 1900, 1780, 1200),
	}
}

func findTerm(t TermTable, term string) (TermMetrics, bool) {
	for _, r := range t.Rows {
		if r.Term == term {
			return r, true
		}
	}
	return TermMetrics{}, false
}
