package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

// ============================================================================
// AGGREGATE BY TERM
// ============================================================================

func TestAggregateByTermTwoTerms(t *testing.T) {
	t.Parallel()

	table := New().AggregateByTerm(twoTerms(), Chronological)
	require.Len(t, table.Rows, 2)
	assert.Empty(t, table.Warnings)

	fall, spring := table.Rows[0], table.Rows[1]

	assert.Equal(t, "Fall 2022", fall.Term)
	assert.Equal(t, 2022, fall.Year)
	assert.Equal(t, Fall, fall.Season)
	assert.Equal(t, null.IntFrom(30000), fall.Applications)
	assert.Equal(t, null.IntFrom(18000), fall.Admitted)
	assert.Equal(t, null.IntFrom(7000), fall.Enrolled)
	assert.InDelta(t, 85.0, fall.RetentionRatePct.Float64, 1e-9)
	assert.InDelta(t, 80.0, fall.SatisfactionPct.Float64, 1e-9)

	assert.Equal(t, "Spring 2023", spring.Term)
	assert.Equal(t, null.IntFrom(29400), spring.Applications)
	assert.Equal(t, null.IntFrom(17100), spring.Admitted)
	assert.Equal(t, null.IntFrom(6980), spring.Enrolled)
	assert.InDelta(t, 89.2, spring.RetentionRatePct.Float64, 1e-9)
	assert.InDelta(t, 85.2, spring.SatisfactionPct.Float64, 1e-9)

	latest, err := New().LatestTerm(table.Rows)
	require.NoError(t, err)
	assert.Equal(t, spring, latest)
}

func TestAggregateByTermSumsAndMeans(t *testing.T) {
	t.Parallel()

	records := []StudentTermRecord{
		rec(2023, "Fall 2023", 100, 60, 30, 80, 70),
		rec(2023, "Fall 2023", 200, 90, 50, 90, 90),
		rec(2023, "Spring 2023", 50, 20, 10, 70, 60),
	}

	table := New().AggregateByTerm(records, Chronological)
	require.Len(t, table.Rows, 2)

	fall, ok := findTerm(table, "Fall 2023")
	require.True(t, ok)
	assert.Equal(t, 2, fall.Records)
	assert.Equal(t, null.IntFrom(300), fall.Applications)
	assert.Equal(t, null.IntFrom(80), fall.Enrolled)
	assert.InDelta(t, 85.0, fall.RetentionRatePct.Float64, 1e-9, "rates are the unweighted mean")
	assert.InDelta(t, 80.0, fall.SatisfactionPct.Float64, 1e-9)

	_, ok = findTerm(table, "Summer 2023")
	assert.False(t, ok)
}

func TestAggregateByTermApplicationsPartition(t *testing.T) {
	t.Parallel()

	records := []StudentTermRecord{
		rec(2021, "Fall 2021", 1200, 700, 300, 80, 75),
		rec(2022, "Spring 2022", 1100, 650, 280, 81, 76),
		rec(2022, "Spring 2022", 90, 40, 20, 82, 77),
		rec(2022, "Summer 2022", 300, 200, 100, 83, 78),
		rec(2022, "Fall 2022", 1300, 720, 310, 84, 79),
		rec(2021, "Fall 2021", 17, 9, 4, 85, 80),
	}

	var want int
	for _, r := range records {
		want += r.Applications.Int
	}

	for _, order := range []Ordering{Chronological, Lexical} {
		var got int
		for _, row := range New().AggregateByTerm(records, order).Rows {
			got += row.Applications.Int
		}
		assert.Equal(t, want, got, "order %s", order)
	}
}

func TestAggregateByTermAbsentValues(t *testing.T) {
	t.Parallel()

	a := rec(2023, "Fall 2023", 100, 60, 30, 80, 70)
	b := rec(2023, "Fall 2023", 200, 90, 50, 90, 90)
	b.RetentionRatePct = null.Float64{}
	c := rec(2023, "Spring 2023", 50, 20, 10, 70, 60)
	c.Applications = null.Int{}
	c.SatisfactionPct = null.Float64{}

	table := New().AggregateByTerm([]StudentTermRecord{a, b, c}, Chronological)

	fall, _ := findTerm(table, "Fall 2023")
	assert.InDelta(t, 80.0, fall.RetentionRatePct.Float64, 1e-9, "absent rate is skipped, not averaged as zero")

	spring, _ := findTerm(table, "Spring 2023")
	assert.False(t, spring.Applications.Valid, "a sum over no values stays absent")
	assert.False(t, spring.SatisfactionPct.Valid)
	assert.False(t, spring.AdmitRate().Valid)
	assert.True(t, spring.Yield().Valid)
	assert.InDelta(t, 50.0, spring.Yield().Float64, 1e-9)
}

func TestAggregateByTermEmpty(t *testing.T) {
	t.Parallel()

	table := New().AggregateByTerm(nil, Chronological)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
}

func TestAggregateByTermYearCollision(t *testing.T) {
	t.Parallel()

	records := []StudentTermRecord{
		rec(2022, "Fall", 100, 50, 20, 80, 70),
		rec(2023, "Fall", 100, 50, 20, 80, 70),
	}

	table := New().AggregateByTerm(records, Chronological)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 2023, table.Rows[0].Year)
	assert.Equal(t, null.IntFrom(200), table.Rows[0].Applications)

	require.Len(t, table.Warnings, 1)
	var w *TermYearCollisionWarning
	require.True(t, errors.As(table.Warnings[0], &w))
	assert.Equal(t, "Fall", w.Term)
	assert.Equal(t, []int{2022, 2023}, w.Years)
}

// ============================================================================
// ORDERING
// ============================================================================

func TestOrdering(t *testing.T) {
	t.Parallel()

	records := []StudentTermRecord{
		rec(2023, "Summer 2023", 1, 1, 1, 1, 1),
		rec(2023, "Fall 2023", 1, 1, 1, 1, 1),
		rec(2022, "Fall 2022", 1, 1, 1, 1, 1),
		rec(2023, "Spring 2023", 1, 1, 1, 1, 1),
	}

	terms := func(tbl TermTable) []string {
		out := make([]string, len(tbl.Rows))
		for i, r := range tbl.Rows {
			out[i] = r.Term
		}
		return out
	}

	eng := New()
	assert.Equal(t,
		[]string{"Fall 2022", "Spring 2023", "Fall 2023", "Summer 2023"},
		terms(eng.AggregateByTerm(records, Chronological)))
	assert.Equal(t,
		[]string{"Fall 2022", "Fall 2023", "Spring 2023", "Summer 2023"},
		terms(eng.AggregateByTerm(records, Lexical)))

	custom := New(WithTermOrdinals(map[Season]int{Fall: 0, Spring: 1}))
	assert.Equal(t,
		[]string{"Fall 2022", "Fall 2023", "Spring 2023", "Summer 2023"},
		terms(custom.AggregateByTerm(records, Chronological)))
	assert.Equal(t, 2, custom.Ordinal(Other), "unlisted seasons keep their default")
}

func TestParseOrdering(t *testing.T) {
	t.Parallel()

	o, err := ParseOrdering("Lexical")
	require.NoError(t, err)
	assert.Equal(t, Lexical, o)

	o, err = ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, Chronological, o)

	_, err = ParseOrdering("alphabetical")
	assert.Error(t, err)
}

// ============================================================================
// LATEST TERM / OVERALL
// ============================================================================

func TestLatestTermIsChronological(t *testing.T) {
	t.Parallel()

	eng := New()
	rows := eng.AggregateByTerm([]StudentTermRecord{
		rec(2023, "Spring 2023", 1, 1, 1, 1, 1),
		rec(2022, "Fall 2022", 1, 1, 1, 1, 1),
	}, Lexical)
	require.Equal(t, "Fall 2022", rows.Rows[0].Term, "lexical order puts Fall 2022 first")

	latest, err := eng.LatestTerm(rows.Rows)
	require.NoError(t, err)
	assert.Equal(t, "Spring 2023", latest.Term)
	assert.Equal(t, 2023, latest.Year)
}

func TestLatestTermWithinYear(t *testing.T) {
	t.Parallel()

	rows := New().AggregateByTerm([]StudentTermRecord{
		rec(2023, "Fall 2023", 1, 1, 1, 1, 1),
		rec(2023, "Spring 2023", 1, 1, 1, 1, 1),
	}, Lexical).Rows

	latest, err := New().LatestTerm(rows)
	require.NoError(t, err)
	assert.Equal(t, "Fall 2023", latest.Term)

	latest, err = New(WithTermOrdinals(map[Season]int{Spring: 5})).LatestTerm(rows)
	require.NoError(t, err)
	assert.Equal(t, "Spring 2023", latest.Term)
}

func TestLatestTermEmpty(t *testing.T) {
	t.Parallel()

	_, err := New().LatestTerm(nil)
	var empty *EmptyInputError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "latest term", empty.Operation)
}

func TestOverall(t *testing.T) {
	t.Parallel()

	all, err := New().Overall(twoTerms())
	require.NoError(t, err)
	assert.Equal(t, AllTerms, all.Term)
	assert.Equal(t, 2023, all.Year)
	assert.Equal(t, 2, all.Records)
	assert.Equal(t, null.IntFrom(59400), all.Applications)
	assert.Equal(t, null.IntFrom(13980), all.Enrolled)
	assert.InDelta(t, 87.1, all.RetentionRatePct.Float64, 1e-9)

	_, err = New().Overall(nil)
	var empty *EmptyInputError
	assert.ErrorAs(t, err, &empty)
}

func TestTermOptions(t *testing.T) {
	t.Parallel()

	eng := New()
	assert.Equal(t, []string{AllTerms, "Fall 2022", "Spring 2023"}, eng.TermOptions(twoTerms()))
	assert.Equal(t, []string{AllTerms}, eng.TermOptions(nil))
}
