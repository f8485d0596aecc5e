package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spektr-org/unidash/metrics"
	"github.com/spektr-org/unidash/schema"
)

// ============================================================================
// FIXTURES
// ============================================================================

const header = "Year,Term,Applications,Admitted,Enrolled,Retention Rate (%),Student Satisfaction (%),Arts Enrolled,Science Enrolled,Engineering Enrolled,Business Enrolled\n"

var studentCSV = []byte(header +
	"2022,Fall 2022,30000,18000,7000,85.0,80.0,2000,2000,1800,1200\n" +
	"2023,Spring 2023,29400,17100,6980,89.2,85.2,2100,1900,1780,1200\n")

// ============================================================================
// PARSE CSV
// ============================================================================

func TestParseCSV(t *testing.T) {
	t.Parallel()

	view, err := ParseCSV(studentCSV, schema.StudentTerms())
	require.NoError(t, err)
	require.Equal(t, 2, view.Len())

	assert.Equal(t, "Spring 2023", view.Dimension(1, schema.KeyTerm))
	v, ok := view.Measure(1, schema.KeyRetentionRate)
	assert.True(t, ok)
	assert.InDelta(t, 89.2, v, 1e-9)
	assert.Len(t, view.MeasureKeys(), 10)
}

func TestParseCSVBlankCellsAndRows(t *testing.T) {
	t.Parallel()

	data := []byte(header +
		"2022,Fall 2022,30000,18000,7000,,80.0,2000,2000,1800,1200\n" +
		",,,,,,,,,,\n" +
		"2023,Spring 2023,29400,17100,6980,89.2,85.2,2100,1900,1780,1200\n")

	view, err := ParseCSV(data, schema.StudentTerms())
	require.NoError(t, err)
	require.Equal(t, 2, view.Len(), "blank rows are skipped")

	_, ok := view.Measure(0, schema.KeyRetentionRate)
	assert.False(t, ok, "blank cell is absent")
}

func TestParseCSVNumberFormats(t *testing.T) {
	t.Parallel()

	data := []byte(header + `2022,Fall 2022,"30,000","18,000",7000,85%,80.0,2000,2000,1800,1200` + "\n")

	view, err := ParseCSV(data, schema.StudentTerms())
	require.NoError(t, err)

	v, _ := view.Measure(0, schema.KeyApplications)
	assert.InDelta(t, 30000.0, v, 1e-9)
	v, _ = view.Measure(0, schema.KeyRetentionRate)
	assert.InDelta(t, 85.0, v, 1e-9)
}

func TestParseCSVDelimiter(t *testing.T) {
	t.Parallel()

	data := []byte(strings.ReplaceAll(string(studentCSV), ",", ";"))
	view, err := ParseCSV(data, schema.StudentTerms(), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Len())
	assert.Equal(t, "Fall 2022", view.Dimension(0, schema.KeyTerm))

	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"decimal comma rate", "2023;Spring 2023;29400;17100;6980;89,2;85.2;2100;1900;1780;1200", "Retention Rate (%)"},
		{"decimal comma count", "2023;Spring 2023;29400;17100;6980;89.2;85.2;1,5;1900;1780;1200", "Arts Enrolled"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := []byte(strings.ReplaceAll(header, ",", ";") + tt.row + "\n")
			_, err := ParseCSV(data, schema.StudentTerms(), CSVOptions{Delimiter: ';'})
			require.Error(t, err)
			assert.Contains(t, err.Error(), `row 2, column "`+tt.column+`"`)
		})
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	valid := map[string]float64{
		"7000":      7000,
		"30,000":    30000,
		"1,234,567": 1234567,
		"1,234.5":   1234.5,
		"-1,000":    -1000,
		"85%":       85,
		"89.2":      89.2,
	}
	for in, want := range valid {
		got, err := parseNumber(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}

	for _, in := range []string{"89,2", "1,5", "30,00", "1234,567", ",100", "1,,000", "lots"} {
		_, err := parseNumber(in)
		assert.Error(t, err, in)
	}
}

func TestParseCSVRejectsNonNumericMeasure(t *testing.T) {
	t.Parallel()

	data := []byte(header + "2022,Fall 2022,lots,18000,7000,85.0,80.0,2000,2000,1800,1200\n")
	_, err := ParseCSV(data, schema.StudentTerms())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `row 2, column "Applications"`)
}

func TestParseCSVEmpty(t *testing.T) {
	t.Parallel()

	view, err := ParseCSV(nil, schema.StudentTerms())
	require.NoError(t, err)
	assert.Equal(t, 0, view.Len())
}

// ============================================================================
// SNAPSHOT
// ============================================================================

func TestReadSnapshot(t *testing.T) {
	t.Parallel()

	snap, err := ReadSnapshot("students.csv", studentCSV)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())

	r := snap.Records()[0]
	assert.Equal(t, 2022, r.Year)
	assert.Equal(t, "Fall 2022", r.Term)
	assert.Equal(t, null.IntFrom(7000), r.Enrolled)
	assert.Equal(t, null.IntFrom(1200), r.BusinessEnrolled)
}

func TestReadSnapshotMissingColumn(t *testing.T) {
	t.Parallel()

	data := []byte("Year,Term,Applications,Admitted,Retention Rate (%),Student Satisfaction (%),Arts Enrolled,Science Enrolled,Engineering Enrolled,Business Enrolled,Notes\n" +
		"2022,Fall 2022,30000,18000,85.0,80.0,2000,2000,1800,1200,ok\n")

	_, err := ReadSnapshot("students.csv", data)
	var missing *metrics.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"Enrolled"}, missing.Columns)
}

func TestReadSnapshotHeaderOnly(t *testing.T) {
	t.Parallel()

	snap, err := ReadSnapshot("students.csv", []byte(header))
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestReadSnapshotEmptyFileMissesEveryColumn(t *testing.T) {
	t.Parallel()

	_, err := ReadSnapshot("empty.csv", nil)
	var missing *metrics.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Columns, 11)
}

func TestLoadSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, os.WriteFile(path, studentCSV, 0o600))

	core, logs := observer.New(zap.InfoLevel)
	snap, err := LoadSnapshot(path, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, path, snap.Source())

	entries := logs.FilterMessage("dataset loaded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["records"])

	_, err = LoadSnapshot(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
