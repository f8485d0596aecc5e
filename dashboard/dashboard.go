// Package dashboard assembles the render-ready view of a dataset snapshot:
// KPIs, chart configs and tables for one selected term.
//
// The pipeline is explicit: snapshot in, selected term as a parameter,
// view model out. Nothing is read from ambient state and nothing is kept
// between calls.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/metrics"
)

// Chart and table IDs.
const (
	ChartFunnel          = "funnel"
	ChartRates           = "rates"
	ChartRatesScatter    = "rates_scatter"
	ChartDepartments     = "departments"
	ChartDepartmentTrend = "department_trend"
	ChartSeasonal        = "seasonal_comparison"

	TableTerms           = "terms"
	TableSeasons         = "seasons"
	TableDepartments     = "departments"
	TableDepartmentTrend = "department_trend"
)

// KPI is one headline number.
type KPI struct {
	Key   string  `json:"key" yaml:"key"`
	Label string  `json:"label" yaml:"label"`
	Value string  `json:"value" yaml:"value"`
	Raw   float64 `json:"raw" yaml:"raw"`
	Valid bool    `json:"valid" yaml:"valid"`
}

// Chart is a chart config with a stable ID.
type Chart struct {
	ID     string              `json:"id" yaml:"id"`
	Config *engine.ChartConfig `json:"config" yaml:"config"`
}

// Table is a table with a stable ID.
type Table struct {
	ID   string            `json:"id" yaml:"id"`
	Data *engine.TableData `json:"data" yaml:"data"`
}

// Dashboard is the complete view model for one selection.
type Dashboard struct {
	Version      string    `json:"version" yaml:"version"`
	Source       string    `json:"source" yaml:"source"`
	LoadedAt     time.Time `json:"loadedAt" yaml:"loadedAt"`
	SelectedTerm string    `json:"selectedTerm" yaml:"selectedTerm"`
	TermOptions  []string  `json:"termOptions" yaml:"termOptions"`
	Records      int       `json:"records" yaml:"records"`

	// KPITerm is the term the KPIs describe: the selected term, or the
	// chronologically latest one when every term is selected.
	KPITerm string `json:"kpiTerm" yaml:"kpiTerm"`
	KPIs    []KPI  `json:"kpis" yaml:"kpis"`

	Charts   []Chart  `json:"charts" yaml:"charts"`
	Tables   []Table  `json:"tables" yaml:"tables"`
	Warnings []string `json:"warnings" yaml:"warnings"`
	Notice   string   `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// Chart returns the chart with the given ID, or nil.
func (d *Dashboard) Chart(id string) *engine.ChartConfig {
	for _, c := range d.Charts {
		if c.ID == id {
			return c.Config
		}
	}
	return nil
}

// Table returns the table with the given ID, or nil.
func (d *Dashboard) Table(id string) *engine.TableData {
	for _, t := range d.Tables {
		if t.ID == id {
			return t.Data
		}
	}
	return nil
}

// Options controls a build.
type Options struct {
	Term   string           // selected term or metrics.AllTerms
	Order  metrics.Ordering // presentation order of term rows
	Logger *zap.Logger
}

// Build runs the pipeline: filter by the selected term, aggregate, and lay
// out KPIs, charts and tables. A selection that matches no record is not an
// error; the dashboard comes back empty with a Notice.
func Build(eng *metrics.Engine, snap *metrics.Snapshot, opts Options) (*Dashboard, error) {
	if eng == nil || snap == nil {
		return nil, errors.New("dashboard: engine and snapshot are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	term := opts.Term
	if term == "" {
		term = metrics.AllTerms
	}

	all := snap.Records()
	filtered := metrics.FilterByTerm(all, term)

	d := &Dashboard{
		Version:      snap.Version().String(),
		Source:       snap.Source(),
		LoadedAt:     snap.LoadedAt(),
		SelectedTerm: term,
		TermOptions:  eng.TermOptions(all),
		Records:      len(filtered),
		KPIs:         []KPI{},
		Charts:       []Chart{},
		Tables:       []Table{},
		Warnings:     []string{},
	}

	terms := eng.AggregateByTerm(filtered, opts.Order)
	latest, err := eng.LatestTerm(terms.Rows)
	if err != nil {
		var empty *metrics.EmptyInputError
		if !errors.As(err, &empty) {
			return nil, err
		}
		d.Notice = fmt.Sprintf("No records match term %q.", term)
		log.Info("dashboard selection is empty", zap.String("term", term))
		return d, nil
	}

	d.KPITerm = latest.Term
	d.KPIs = buildKPIs(latest)

	seasons := eng.AggregateBySeason(filtered)
	depts := eng.DepartmentTotals(filtered)
	trend := eng.DepartmentTrendByYear(filtered)
	cmp := eng.SeasonalComparison(all, term, opts.Order)

	d.addChart(ChartFunnel, funnelChart(terms))
	d.addChart(ChartRates, ratesChart(terms))
	d.addChart(ChartRatesScatter, ratesScatter(terms))
	d.addChart(ChartDepartments, departmentPie(depts))
	d.addChart(ChartDepartmentTrend, departmentTrendChart(trend))
	d.addChart(ChartSeasonal, seasonalChart(cmp))

	overall, err := eng.Overall(filtered)
	if err != nil {
		return nil, err
	}
	d.Tables = append(d.Tables,
		Table{ID: TableTerms, Data: TermsTable(terms, &overall)},
		Table{ID: TableSeasons, Data: SeasonsTable(seasons)},
		Table{ID: TableDepartments, Data: DepartmentsTable(depts)},
		Table{ID: TableDepartmentTrend, Data: TrendTable(trend)},
	)

	for _, w := range eng.Validate(filtered) {
		d.Warnings = append(d.Warnings, w.Error())
		log.Warn("data consistency", zap.Error(w))
	}

	log.Debug("dashboard built",
		zap.String("term", term),
		zap.Int("records", len(filtered)),
		zap.Int("charts", len(d.Charts)),
		zap.Int("warnings", len(d.Warnings)))
	return d, nil
}

// addChart skips charts with nothing to plot.
func (d *Dashboard) addChart(id string, cfg *engine.ChartConfig) {
	if cfg == nil {
		return
	}
	d.Charts = append(d.Charts, Chart{ID: id, Config: cfg})
}

func buildKPIs(t metrics.TermMetrics) []KPI {
	countKPI := func(key, label string, v null.Int) KPI {
		return KPI{Key: key, Label: label, Raw: float64(v.Int), Valid: v.Valid, Value: count(v)}
	}
	pctKPI := func(key, label string, v null.Float64) KPI {
		return KPI{Key: key, Label: label, Raw: engine.RoundTo2(v.Float64), Valid: v.Valid, Value: pct(v)}
	}
	return []KPI{
		countKPI("applications", "Applications", t.Applications),
		countKPI("admitted", "Admitted", t.Admitted),
		countKPI("enrolled", "Enrolled", t.Enrolled),
		pctKPI("retention", "Avg. Retention Rate", t.RetentionRatePct),
		pctKPI("satisfaction", "Avg. Satisfaction Rate", t.SatisfactionPct),
		pctKPI("admit_rate", "Admit Rate", t.AdmitRate()),
		pctKPI("yield", "Yield", t.Yield()),
	}
}
