// Package export writes dashboard tables and chart data to spreadsheet
// formats: CSV for pipes and Sheets, XLSX for Excel.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spektr-org/unidash/engine"
)

// WriteTableCSV writes a table as CSV: headers, rows, then the summary row
// when the table has one.
func WriteTableCSV(w io.Writer, t *engine.TableData) error {
	if t == nil {
		return fmt.Errorf("export: nil table")
	}
	cw := csv.NewWriter(w)
	for _, row := range tableRows(t) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChartCSV writes chart data as CSV. A single series becomes two
// columns; several series become one column each, aligned by label.
func WriteChartCSV(w io.Writer, c *engine.ChartConfig) error {
	if c == nil {
		return fmt.Errorf("export: nil chart")
	}
	cw := csv.NewWriter(w)
	for _, row := range chartRows(c) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// tableRows flattens a table into string rows.
func tableRows(t *engine.TableData) [][]string {
	out := make([][]string, 0, len(t.Rows)+2)
	out = append(out, t.Headers())
	out = append(out, t.Rows...)
	if t.Summary != nil {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = t.Summary.Values[col.Key]
		}
		if len(row) > 0 && row[0] == "" {
			row[0] = t.Summary.Label
		}
		out = append(out, row)
	}
	return out
}

// chartRows flattens chart series into string rows. Scatter charts carry
// their X coordinate as its own column.
func chartRows(c *engine.ChartConfig) [][]string {
	xLabel, yLabel := c.XAxis, c.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	if c.ChartType == engine.ChartScatter {
		out := [][]string{{"Label", xLabel, yLabel}}
		for _, s := range c.Series {
			for _, p := range s.Data {
				x := ""
				if p.X != nil {
					x = fmtNum(*p.X)
				}
				out = append(out, []string{p.Label, x, fmtNum(p.Value)})
			}
		}
		return out
	}

	if len(c.Series) == 1 {
		out := [][]string{{xLabel, yLabel}}
		for _, p := range c.Series[0].Data {
			out = append(out, []string{p.Label, fmtNum(p.Value)})
		}
		return out
	}

	// Multi-series: series may skip labels, so collect labels first.
	headers := []string{xLabel}
	var labels []string
	seen := make(map[string]bool)
	cells := make([]map[string]float64, len(c.Series))
	for i, s := range c.Series {
		headers = append(headers, s.Name)
		cells[i] = make(map[string]float64, len(s.Data))
		for _, p := range s.Data {
			cells[i][p.Label] = p.Value
			if !seen[p.Label] {
				seen[p.Label] = true
				labels = append(labels, p.Label)
			}
		}
	}

	out := [][]string{headers}
	for _, l := range labels {
		row := []string{l}
		for i := range c.Series {
			if v, ok := cells[i][l]; ok {
				row = append(row, fmtNum(v))
			} else {
				row = append(row, "")
			}
		}
		out = append(out, row)
	}
	return out
}

// fmtNum prints whole numbers without decimals and everything else with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
