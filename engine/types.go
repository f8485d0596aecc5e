package engine

// ============================================================================
// ENGINE TYPES — Domain-Agnostic Analytics
// ============================================================================
// Record (dimension/measure maps), Filters (generic map), Group (intermediate
// aggregation), and the render-ready chart/table shapes handed to renderers.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A measure missing from the map is absent, not zero.
//
// Record{Dimensions["term"]="Fall 2023", Measures["enrolled"]=7000}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a set of records sharing a dimension value.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// Aggregate is the result of folding one measure over a view.
// Valid is false when no record in the view carried the measure.
type Aggregate struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
	N     int     `json:"n"` // records that carried the measure
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types understood by the renderer.
const (
	ChartBar        = "bar"
	ChartGroupedBar = "grouped_bar"
	ChartLine       = "line"
	ChartScatter    = "scatter"
	ChartPie        = "pie"
)

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point. Scatter charts use X as the
// horizontal coordinate; other charts place points by Label.
type ChartPoint struct {
	Label string   `json:"label"`
	X     *float64 `json:"x,omitempty"`
	Value float64  `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
