package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from series data
// ============================================================================
// Builders never invent values: a missing cell is left out of its series
// rather than plotted as zero.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartSpec carries the presentation fields of a chart.
type ChartSpec struct {
	Type  string
	Title string
	XAxis string
	YAxis string
}

// BuildChart produces a ChartConfig from a ChartSpec and its series.
// Returns nil when no series carries a point.
func BuildChart(spec ChartSpec, series ...ChartSeries) *ChartConfig {
	if !hasPoints(series) {
		return nil
	}

	chartType := spec.Type
	if chartType == "" {
		chartType = ChartBar
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		Series:     series,
		ShowLegend: len(series) > 1 || chartType == ChartPie,
		ShowGrid:   chartType != ChartPie,
	}

	config.Colors = assignColors(len(config.Series))
	for i := range config.Series {
		if config.Series[i].Color == "" {
			config.Series[i].Color = config.Colors[i]
		}
	}
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

// PivotPoint is one cell of a long-format table: a value for (series, label).
type PivotPoint struct {
	Series string
	Label  string
	Value  float64
	Valid  bool
}

// PivotSeries turns long-format cells into one series per distinct Series
// value. Series and label order follow first appearance; invalid cells are
// skipped.
func PivotSeries(cells []PivotPoint) []ChartSeries {
	index := make(map[string]int)
	var series []ChartSeries

	for _, c := range cells {
		i, ok := index[c.Series]
		if !ok {
			i = len(series)
			index[c.Series] = i
			series = append(series, ChartSeries{Name: c.Series, Data: []ChartPoint{}})
		}
		if !c.Valid {
			continue
		}
		series[i].Data = append(series[i].Data, ChartPoint{
			Label: c.Label,
			Value: RoundTo2(c.Value),
		})
	}
	return series
}

// Point builds a labelled chart point with the value rounded for display.
func Point(label string, value float64) ChartPoint {
	return ChartPoint{Label: label, Value: RoundTo2(value)}
}

// XYPoint builds a scatter point.
func XYPoint(label string, x, y float64) ChartPoint {
	rx := RoundTo2(x)
	return ChartPoint{Label: label, X: &rx, Value: RoundTo2(y)}
}

func hasPoints(series []ChartSeries) bool {
	for _, s := range series {
		if len(s.Data) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
