package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spektr-org/unidash/dashboard"
	"github.com/spektr-org/unidash/engine"
)

// Sheet names the workbook always carries.
const (
	SheetSummary = "Summary"
	SheetCharts  = "Chart Data"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// Workbook renders a dashboard into an excelize file: a summary sheet with
// the KPIs and warnings, one sheet per table, and one sheet holding every
// chart's data.
type Workbook struct {
	log *zap.Logger
}

// NewWorkbook returns a workbook writer. A nil logger discards output.
func NewWorkbook(logger *zap.Logger) *Workbook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workbook{log: logger}
}

// Write renders d as XLSX into w.
func (wb *Workbook) Write(w io.Writer, d *dashboard.Dashboard) error {
	f, err := wb.build(d)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		wb.log.Error("failed to write workbook", zap.Error(err))
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// Save renders d as XLSX to path.
func (wb *Workbook) Save(path string, d *dashboard.Dashboard) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := wb.Write(out, d); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		wb.log.Error("failed to save workbook", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	wb.log.Info("workbook saved", zap.String("path", path), zap.Int("tables", len(d.Tables)))
	return nil
}

func (wb *Workbook) build(d *dashboard.Dashboard) (*excelize.File, error) {
	if d == nil {
		return nil, fmt.Errorf("export: nil dashboard")
	}

	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	s := &sheetWriter{f: f, header: header}

	idx, err := f.NewSheet(SheetSummary)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("export: %w", err)
	}
	f.SetActiveSheet(idx)
	s.fail(f.DeleteSheet("Sheet1"))

	s.summary(d)
	used := map[string]bool{SheetSummary: true, SheetCharts: true}
	for _, t := range d.Tables {
		name := uniqueSheetName(t.Data.Title, used)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("export: %w", err)
		}
		s.rows(name, 1, tableRows(t.Data))
		s.width(name, "A", colName(len(t.Data.Columns)-1), 16)
	}
	if len(d.Charts) > 0 {
		if _, err := f.NewSheet(SheetCharts); err != nil {
			f.Close()
			return nil, fmt.Errorf("export: %w", err)
		}
		s.charts(d.Charts)
	}

	if s.err != nil {
		f.Close()
		return nil, fmt.Errorf("export: %w", s.err)
	}
	return f, nil
}

// sheetWriter keeps the first cell error so the layout code stays flat.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (s *sheetWriter) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *sheetWriter) set(sheet string, col, row int, v any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(sheet, cell(col, row), v)
}

func (s *sheetWriter) width(sheet, from, to string, w float64) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetColWidth(sheet, from, to, w)
}

func (s *sheetWriter) styleRow(sheet string, row, cols int) {
	if s.err != nil || cols == 0 {
		return
	}
	s.err = s.f.SetCellStyle(sheet, cell(0, row), cell(cols-1, row), s.header)
}

// rows writes rows starting at a 1-based row, styling the first as a
// header, and returns the next free row.
func (s *sheetWriter) rows(sheet string, start int, rows [][]string) int {
	for i, r := range rows {
		for c, v := range r {
			s.set(sheet, c, start+i, cellValue(v))
		}
		if i == 0 {
			s.styleRow(sheet, start, len(r))
		}
	}
	return start + len(rows)
}

func (s *sheetWriter) summary(d *dashboard.Dashboard) {
	sh := SheetSummary
	row := s.rows(sh, 1, [][]string{
		{"Field", "Value"},
		{"Source", d.Source},
		{"Version", d.Version},
		{"Loaded At", loadedAt(d.LoadedAt)},
		{"Selected Term", d.SelectedTerm},
		{"KPI Term", d.KPITerm},
		{"Records", strconv.Itoa(d.Records)},
	})
	if d.Notice != "" {
		s.set(sh, 0, row, "Notice")
		s.set(sh, 1, row, d.Notice)
		row++
	}

	row++
	kpis := [][]string{{"KPI", "Value"}}
	for _, k := range d.KPIs {
		kpis = append(kpis, []string{k.Label, k.Value})
	}
	row = s.rows(sh, row, kpis)

	if len(d.Warnings) > 0 {
		row++
		warnings := [][]string{{"Warnings"}}
		for _, w := range d.Warnings {
			warnings = append(warnings, []string{w})
		}
		s.rows(sh, row, warnings)
	}
	s.width(sh, "A", "A", 24)
	s.width(sh, "B", "B", 40)
}

func loadedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// charts stacks every chart's data on one sheet, a title row above each.
func (s *sheetWriter) charts(charts []dashboard.Chart) {
	row := 1
	for _, c := range charts {
		s.set(SheetCharts, 0, row, c.Config.Title)
		row = s.rows(SheetCharts, row+1, chartRows(c.Config)) + 1
	}
}

// cellValue writes counts such as "29,400" as numbers so Excel can sum
// them; formatted text such as "85.20%" or "n/a" stays a string.
func cellValue(v string) any {
	if v == "" || v == engine.NoValue {
		return v
	}
	if n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
		return n
	}
	return v
}

func uniqueSheetName(title string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, title)
	if base == "" {
		base = "Table"
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	name := base
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = base
		if len(name)+len(suffix) > maxSheetName {
			name = name[:maxSheetName-len(suffix)]
		}
		name += suffix
	}
	used[name] = true
	return name
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", colName(col), row)
}
