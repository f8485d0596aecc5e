package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// CHART BUILDER TESTS
// ============================================================================

func TestBuildChartWithoutPointsIsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, BuildChart(ChartSpec{Title: "Empty"}))
	assert.Nil(t, BuildChart(ChartSpec{Title: "Empty"}, ChartSeries{Name: "a", Data: []ChartPoint{}}))
}

func TestBuildChartAssignsColors(t *testing.T) {
	t.Parallel()

	cfg := BuildChart(ChartSpec{Type: ChartLine, Title: "Rates", XAxis: "Term", YAxis: "%"},
		ChartSeries{Name: "Retention", Data: []ChartPoint{Point("Fall 2022", 85)}},
		ChartSeries{Name: "Satisfaction", Data: []ChartPoint{Point("Fall 2022", 80)}, Color: "#000000"},
	)
	require.NotNil(t, cfg)

	assert.Equal(t, ChartLine, cfg.ChartType)
	assert.True(t, cfg.ShowLegend)
	assert.True(t, cfg.ShowGrid)
	assert.Equal(t, defaultColors[0], cfg.Series[0].Color)
	assert.Equal(t, "#000000", cfg.Series[1].Color, "explicit colors are kept")
	assert.Len(t, cfg.Colors, 2)
}

func TestBuildChartDefaultsToBar(t *testing.T) {
	t.Parallel()

	cfg := BuildChart(ChartSpec{}, ChartSeries{Name: "a", Data: []ChartPoint{Point("x", 1)}})
	require.NotNil(t, cfg)
	assert.Equal(t, ChartBar, cfg.ChartType)
	assert.False(t, cfg.ShowLegend)
}

func TestPivotSeries(t *testing.T) {
	t.Parallel()

	series := PivotSeries([]PivotPoint{
		{Series: "Arts", Label: "2022", Value: 2000, Valid: true},
		{Series: "Science", Label: "2022", Value: 0, Valid: false},
		{Series: "Arts", Label: "2023", Value: 2100.456, Valid: true},
		{Series: "Science", Label: "2023", Value: 1900, Valid: true},
	})

	require.Len(t, series, 2)
	assert.Equal(t, "Arts", series[0].Name)
	assert.Equal(t, []ChartPoint{{Label: "2022", Value: 2000}, {Label: "2023", Value: 2100.46}}, series[0].Data)
	assert.Equal(t, []ChartPoint{{Label: "2023", Value: 1900}}, series[1].Data, "invalid cells are skipped, not zeroed")
}

func TestXYPoint(t *testing.T) {
	t.Parallel()

	p := XYPoint("Fall 2022", 85.004, 80.126)
	require.NotNil(t, p.X)
	assert.InDelta(t, 85.0, *p.X, 1e-9)
	assert.InDelta(t, 80.13, p.Value, 1e-9)
}

// ============================================================================
// TABLE BUILDER TESTS
// ============================================================================

func TestTableBuilder(t *testing.T) {
	t.Parallel()

	table := NewTable("Terms",
		TextColumn("term", "Term"),
		NumberColumn("enrolled", "Enrolled"),
		PercentColumn("retention", "Retention"),
	).
		Row("Fall 2022", "7,000", "85.00%").
		Row("Spring 2023").
		Row("a", "b", "c", "dropped").
		Total("All", map[string]string{"enrolled": "13,980"}).
		Build()

	assert.Equal(t, "Terms", table.Title)
	assert.Equal(t, []string{"Term", "Enrolled", "Retention"}, table.Headers())
	assert.Equal(t, []string{"Spring 2023", "", ""}, table.Rows[1], "short rows are padded")
	assert.Len(t, table.Rows[2], 3, "extra cells are dropped")
	require.NotNil(t, table.Summary)
	assert.Equal(t, "13,980", table.Summary.Values["enrolled"])
	assert.Equal(t, "right", table.Columns[1].Align)
}

func TestEmptyTableKeepsColumns(t *testing.T) {
	t.Parallel()

	table := NewTable("Empty", TextColumn("term", "Term")).Build()
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
	assert.Nil(t, table.Summary)
	assert.Len(t, table.Columns, 1)
}

// ============================================================================
// FORMAT TESTS
// ============================================================================

func TestFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"int", FormatInt(30000), "30,000"},
		{"small int", FormatInt(7), "7"},
		{"float", FormatFloat(1234.5), "1,234.50"},
		{"percent", FormatPercent(85.2), "85.20%"},
		{"count rounds", FormatCount(6979.6), "6,980"},
		{"optional valid", FormatOptional(89.2, true, FormatPercent), "89.20%"},
		{"optional invalid", FormatOptional(0, false, FormatPercent), NoValue},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
