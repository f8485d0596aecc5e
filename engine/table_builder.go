package engine

// ============================================================================
// TABLE BUILDER — Produces TableData row by row
// ============================================================================
// Callers format cells (see format.go); the builder fixes the shape.
// ============================================================================

// TableBuilder accumulates rows for a TableData.
type TableBuilder struct {
	title   string
	columns []Column
	rows    [][]string
	summary *Summary
}

// NewTable starts a table with the given columns.
func NewTable(title string, columns ...Column) *TableBuilder {
	return &TableBuilder{title: title, columns: columns}
}

// Row appends a row. Short rows are padded with empty cells; extra cells
// are dropped.
func (b *TableBuilder) Row(cells ...string) *TableBuilder {
	row := make([]string, len(b.columns))
	copy(row, cells)
	b.rows = append(b.rows, row)
	return b
}

// Total sets the summary row, keyed by column key.
func (b *TableBuilder) Total(label string, values map[string]string) *TableBuilder {
	b.summary = &Summary{Label: label, Values: values}
	return b
}

// Build returns the finished table. An empty table still carries its
// columns so renderers can draw headers.
func (b *TableBuilder) Build() *TableData {
	rows := b.rows
	if rows == nil {
		rows = [][]string{}
	}
	return &TableData{
		Title:   b.title,
		Columns: b.columns,
		Rows:    rows,
		Summary: b.summary,
	}
}

// ============================================================================
// COLUMN HELPERS
// ============================================================================

// TextColumn is a left-aligned text column.
func TextColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "text", Align: "left"}
}

// NumberColumn is a right-aligned numeric column.
func NumberColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "number", Align: "right"}
}

// PercentColumn is a right-aligned percentage column.
func PercentColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "percent", Align: "right"}
}

// Headers returns the column labels of a table in order.
func (t *TableData) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}
