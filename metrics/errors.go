package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MissingColumnError reports required columns absent from the input. It is
// fatal to every aggregation.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

// EmptyInputError is returned by operations that need at least one row.
type EmptyInputError struct {
	Operation string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no rows to aggregate", e.Operation)
}

// InvalidValueError reports a cell that cannot be turned into a record
// field. Row is the 1-based data row.
type InvalidValueError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("row %d, column %q: %s (got %s)", e.Row, e.Column, e.Reason, e.Value)
}

// Check names the soft invariant a DataConsistencyWarning is about.
type Check string

const (
	CheckDepartmentSum Check = "department_sum" // departments must add up to enrolled
	CheckAdmitted      Check = "admitted"       // admitted <= applications
	CheckEnrolled      Check = "enrolled"       // enrolled <= admitted
	CheckRetention     Check = "retention_range"
	CheckSatisfaction  Check = "satisfaction_range"
)

// DataConsistencyWarning is a non-fatal signal that a record breaks a soft
// invariant. Aggregation proceeds with the values as given; warnings travel
// beside results rather than as an operation's error.
type DataConsistencyWarning struct {
	Row      int // 1-based position in the record set that was checked
	Year     int
	Term     string
	Check    Check
	Expected float64
	Actual   float64
}

func (w *DataConsistencyWarning) Error() string {
	switch w.Check {
	case CheckDepartmentSum:
		return fmt.Sprintf("%s (%d): department enrollment sums to %s but enrolled is %s",
			w.Term, w.Year, fmtNum(w.Actual), fmtNum(w.Expected))
	case CheckAdmitted:
		return fmt.Sprintf("%s (%d): admitted %s exceeds applications %s",
			w.Term, w.Year, fmtNum(w.Actual), fmtNum(w.Expected))
	case CheckEnrolled:
		return fmt.Sprintf("%s (%d): enrolled %s exceeds admitted %s",
			w.Term, w.Year, fmtNum(w.Actual), fmtNum(w.Expected))
	default:
		return fmt.Sprintf("%s (%d): %s value %s outside [0, 100]",
			w.Term, w.Year, w.Check, fmtNum(w.Actual))
	}
}

// TermYearCollisionWarning flags a term label shared by rows from different
// years. Term grouping is by label, so those rows were merged.
type TermYearCollisionWarning struct {
	Term  string
	Years []int
}

func (w *TermYearCollisionWarning) Error() string {
	years := make([]string, len(w.Years))
	for i, y := range w.Years {
		years[i] = fmt.Sprint(y)
	}
	return fmt.Sprintf("term %q appears in years %s and was aggregated as one term",
		w.Term, strings.Join(years, ", "))
}

func fmtNum(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return fmt.Sprintf("%.2f", v)
}
