package metrics

// Validate checks every soft invariant of the records and returns one
// warning per violation, in record order: department reconciliation,
// admitted <= applications, enrolled <= admitted, and rates within
// [0, 100]. Checks involving an absent value are skipped.
func (e *Engine) Validate(records []StudentTermRecord) []error {
	var out []error

	byRow := make(map[int][]*DataConsistencyWarning)
	for _, w := range e.CheckDepartments(records) {
		byRow[w.Row] = append(byRow[w.Row], w)
	}

	for i, r := range records {
		row := i + 1
		warn := func(c Check, expected, actual float64) {
			out = append(out, &DataConsistencyWarning{
				Row: row, Year: r.Year, Term: r.Term, Check: c, Expected: expected, Actual: actual,
			})
		}

		for _, w := range byRow[row] {
			out = append(out, w)
		}
		if r.Admitted.Valid && r.Applications.Valid && r.Admitted.Int > r.Applications.Int {
			warn(CheckAdmitted, float64(r.Applications.Int), float64(r.Admitted.Int))
		}
		if r.Enrolled.Valid && r.Admitted.Valid && r.Enrolled.Int > r.Admitted.Int {
			warn(CheckEnrolled, float64(r.Admitted.Int), float64(r.Enrolled.Int))
		}
		if v := r.RetentionRatePct; v.Valid && (v.Float64 < 0 || v.Float64 > 100) {
			warn(CheckRetention, 100, v.Float64)
		}
		if v := r.SatisfactionPct; v.Valid && (v.Float64 < 0 || v.Float64 > 100) {
			warn(CheckSatisfaction, 100, v.Float64)
		}
	}

	out = append(out, e.AggregateByTerm(records, Chronological).Warnings...)
	return out
}
