package metrics

import (
	"math"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/schema"
)

// Department is one of the fixed enrollment departments.
type Department string

const (
	Arts        Department = "Arts"
	Science     Department = "Science"
	Engineering Department = "Engineering"
	Business    Department = "Business"
)

// Departments lists the departments in their fixed reporting order.
var Departments = []Department{Arts, Science, Engineering, Business}

// Key returns the record key holding the department's enrollment count.
func (d Department) Key() string {
	switch d {
	case Arts:
		return schema.KeyArtsEnrolled
	case Science:
		return schema.KeyScienceEnrolled
	case Engineering:
		return schema.KeyEngineeringEnrolled
	case Business:
		return schema.KeyBusinessEnrolled
	}
	return ""
}

func departmentKeys() []string {
	keys := make([]string, len(Departments))
	for i, d := range Departments {
		keys[i] = d.Key()
	}
	return keys
}

// StudentTermRecord is one (Year, Term) observation. Absent cells are
// invalid null values, never zero.
type StudentTermRecord struct {
	Year                int          `json:"year"`
	Term                string       `json:"term"`
	Applications        null.Int     `json:"applications"`
	Admitted            null.Int     `json:"admitted"`
	Enrolled            null.Int     `json:"enrolled"`
	RetentionRatePct    null.Float64 `json:"retentionRatePct"`
	SatisfactionPct     null.Float64 `json:"satisfactionPct"`
	ArtsEnrolled        null.Int     `json:"artsEnrolled"`
	ScienceEnrolled     null.Int     `json:"scienceEnrolled"`
	EngineeringEnrolled null.Int     `json:"engineeringEnrolled"`
	BusinessEnrolled    null.Int     `json:"businessEnrolled"`
}

// Season classifies the record's current term label.
func (r StudentTermRecord) Season() Season {
	return ClassifySeason(r.Term)
}

// DepartmentEnrolled returns the enrollment count for one department.
func (r StudentTermRecord) DepartmentEnrolled(d Department) null.Int {
	switch d {
	case Arts:
		return r.ArtsEnrolled
	case Science:
		return r.ScienceEnrolled
	case Engineering:
		return r.EngineeringEnrolled
	case Business:
		return r.BusinessEnrolled
	}
	return null.Int{}
}

// DepartmentSum adds the four department counts. Invalid unless all four
// are present.
func (r StudentTermRecord) DepartmentSum() null.Int {
	total := 0
	for _, d := range Departments {
		v := r.DepartmentEnrolled(d)
		if !v.Valid {
			return null.Int{}
		}
		total += v.Int
	}
	return null.IntFrom(total)
}

// ============================================================================
// RECORD VIEW BINDING
// ============================================================================

// Virtual dimensions computed on read.
const (
	dimSeason = "season"
	dimYear   = "year"
)

func intMeasure(get func(StudentTermRecord) null.Int) engine.MeasureFunc[StudentTermRecord] {
	return func(r StudentTermRecord) (float64, bool) {
		v := get(r)
		return float64(v.Int), v.Valid
	}
}

func floatMeasure(get func(StudentTermRecord) null.Float64) engine.MeasureFunc[StudentTermRecord] {
	return func(r StudentTermRecord) (float64, bool) {
		v := get(r)
		return v.Float64, v.Valid
	}
}

var recordAdapter = engine.NewDomainAdapter[StudentTermRecord]().
	Dimension(schema.KeyTerm, func(r StudentTermRecord) string { return r.Term }).
	Dimension(dimSeason, func(r StudentTermRecord) string { return r.Season().String() }).
	Dimension(dimYear, func(r StudentTermRecord) string { return strconv.Itoa(r.Year) }).
	Measure(schema.KeyApplications, intMeasure(func(r StudentTermRecord) null.Int { return r.Applications })).
	Measure(schema.KeyAdmitted, intMeasure(func(r StudentTermRecord) null.Int { return r.Admitted })).
	Measure(schema.KeyEnrolled, intMeasure(func(r StudentTermRecord) null.Int { return r.Enrolled })).
	Measure(schema.KeyRetentionRate, floatMeasure(func(r StudentTermRecord) null.Float64 { return r.RetentionRatePct })).
	Measure(schema.KeySatisfaction, floatMeasure(func(r StudentTermRecord) null.Float64 { return r.SatisfactionPct })).
	Measure(schema.KeyArtsEnrolled, intMeasure(func(r StudentTermRecord) null.Int { return r.ArtsEnrolled })).
	Measure(schema.KeyScienceEnrolled, intMeasure(func(r StudentTermRecord) null.Int { return r.ScienceEnrolled })).
	Measure(schema.KeyEngineeringEnrolled, intMeasure(func(r StudentTermRecord) null.Int { return r.EngineeringEnrolled })).
	Measure(schema.KeyBusinessEnrolled, intMeasure(func(r StudentTermRecord) null.Int { return r.BusinessEnrolled }))

// bind exposes records as a RecordView without copying them.
func bind(records []StudentTermRecord) engine.RecordView {
	return recordAdapter.Bind(records)
}

// ============================================================================
// DECODING
// ============================================================================

// Decode maps a generic record view onto typed records using the
// StudentTerms schema. Every absent required column is reported in one
// MissingColumnError. Blank cells become null values; a blank Year or Term,
// a fractional Year, or a negative or fractional count is an
// InvalidValueError.
func Decode(view engine.RecordView) ([]StudentTermRecord, error) {
	sch := schema.StudentTerms()
	if missing := engine.MissingKeys(view, sch.RequiredKeys()); len(missing) > 0 {
		headers := make([]string, len(missing))
		for i, k := range missing {
			headers[i] = sch.HeaderFor(k)
		}
		return nil, &MissingColumnError{Columns: headers}
	}

	records := make([]StudentTermRecord, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := i + 1
		d := decoder{view: view, i: i, row: row, sch: sch}

		rec := StudentTermRecord{
			Term:                d.term(),
			Year:                d.year(),
			Applications:        d.count(schema.KeyApplications),
			Admitted:            d.count(schema.KeyAdmitted),
			Enrolled:            d.count(schema.KeyEnrolled),
			RetentionRatePct:    d.rate(schema.KeyRetentionRate),
			SatisfactionPct:     d.rate(schema.KeySatisfaction),
			ArtsEnrolled:        d.count(schema.KeyArtsEnrolled),
			ScienceEnrolled:     d.count(schema.KeyScienceEnrolled),
			EngineeringEnrolled: d.count(schema.KeyEngineeringEnrolled),
			BusinessEnrolled:    d.count(schema.KeyBusinessEnrolled),
		}
		if d.err != nil {
			return nil, d.err
		}
		records = append(records, rec)
	}
	return records, nil
}

// maxValue is the largest year or count Decode accepts.
const maxValue = math.MaxInt32

// decoder reads one row and keeps the first error it meets.
type decoder struct {
	view engine.RecordView
	i    int
	row  int
	sch  schema.Config
	err  error
}

func (d *decoder) fail(key, value, reason string) {
	if d.err == nil {
		d.err = &InvalidValueError{Row: d.row, Column: d.sch.HeaderFor(key), Value: value, Reason: reason}
	}
}

func (d *decoder) term() string {
	t := d.view.Dimension(d.i, schema.KeyTerm)
	if t == "" {
		d.fail(schema.KeyTerm, "", "term is required")
	}
	return t
}

func (d *decoder) year() int {
	v, ok := d.view.Measure(d.i, schema.KeyYear)
	if !ok {
		d.fail(schema.KeyYear, "", "year is required")
		return 0
	}
	if v != math.Trunc(v) {
		d.fail(schema.KeyYear, fmtNum(v), "year must be a whole number")
		return 0
	}
	if math.Abs(v) > maxValue {
		d.fail(schema.KeyYear, fmtNum(v), "year is out of range")
		return 0
	}
	return int(v)
}

func (d *decoder) count(key string) null.Int {
	v, ok := d.view.Measure(d.i, key)
	if !ok {
		return null.Int{}
	}
	if v < 0 || v != math.Trunc(v) {
		d.fail(key, fmtNum(v), "count must be a non-negative whole number")
		return null.Int{}
	}
	if v > maxValue {
		d.fail(key, fmtNum(v), "count is out of range")
		return null.Int{}
	}
	return null.IntFrom(int(v))
}

func (d *decoder) rate(key string) null.Float64 {
	v, ok := d.view.Measure(d.i, key)
	if !ok {
		return null.Float64{}
	}
	return null.Float64From(v)
}
