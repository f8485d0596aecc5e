package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/unidash/dashboard"
	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/export"
)

func kpiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kpi",
		Short: "Print KPIs for the selected term, or the latest term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.build()
			if err != nil {
				return err
			}
			out := kpiOutput{Term: d.KPITerm, KPIs: d.KPIs, Notice: d.Notice}
			return a.print(out, kpiTable(out))
		},
	}
}

func termsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "List the term filter options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options := a.eng.TermOptions(a.snap.Records())
			t := engine.NewTable("Terms", engine.TextColumn("term", "Term"))
			for _, o := range options {
				t.Row(o)
			}
			return a.print(options, t.Build())
		},
	}
}

func seasonsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "Aggregate the selected records by season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := a.eng.AggregateBySeason(a.records())
			return a.print(table, dashboard.SeasonsTable(table))
		},
	}
}

func departmentsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "Total enrollment per department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := a.eng.DepartmentTotals(a.records())
			for _, w := range table.Warnings {
				a.log.Warn("data consistency", zap.Error(w))
			}
			return a.print(table, dashboard.DepartmentsTable(table))
		},
	}
}

func trendCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Department enrollment by year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trend := a.eng.DepartmentTrendByYear(a.records())
			return a.print(trend, dashboard.TrendTable(trend))
		},
	}
}

func compareCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare Spring and Fall terms side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp := a.eng.SeasonalComparison(a.snap.Records(), a.cfg.Report.Term, a.order)
			spring := dashboard.TermsTable(cmp.Spring, nil)
			spring.Title = "Spring Terms"
			fall := dashboard.TermsTable(cmp.Fall, nil)
			fall.Title = "Fall Terms"
			return a.print(cmp, spring, fall)
		},
	}
}

func dashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the full dashboard view model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.build()
			if err != nil {
				return err
			}
			tables := []*engine.TableData{kpiTable(kpiOutput{Term: d.KPITerm, KPIs: d.KPIs})}
			for _, t := range d.Tables {
				tables = append(tables, t.Data)
			}
			return a.print(d, tables...)
		},
	}
}

func exportCommand(a *app) *cobra.Command {
	var table, chart string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write dashboard tables to an .xlsx or .csv file",
		Long: `Write dashboard tables to a file. The extension picks the format:
.xlsx writes every table to its own sheet, .csv writes the table named by
--table, or the data of the chart named by --chart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Export.Path
			if path == "" {
				return fmt.Errorf("--out is required")
			}
			d, err := a.build()
			if err != nil {
				return err
			}

			switch strings.ToLower(filepath.Ext(path)) {
			case ".xlsx":
				return export.NewWorkbook(a.log).Save(path, d)
			case ".csv":
				if chart != "" {
					c := d.Chart(chart)
					if c == nil {
						return fmt.Errorf("no chart %q in dashboard", chart)
					}
					return a.writeCSV(path, func(w io.Writer) error { return export.WriteChartCSV(w, c) },
						zap.String("chart", chart))
				}
				t := d.Table(table)
				if t == nil {
					return fmt.Errorf("no table %q in dashboard", table)
				}
				return a.writeCSV(path, func(w io.Writer) error { return export.WriteTableCSV(w, t) },
					zap.String("table", table))
			default:
				return fmt.Errorf("unsupported export format %q (want .xlsx or .csv)", filepath.Ext(path))
			}
		},
	}

	cmd.Flags().String("out", "", "Output file (.xlsx or .csv)")
	cmd.Flags().StringVar(&table, "table", dashboard.TableTerms, "Table to write for .csv output")
	cmd.Flags().StringVar(&chart, "chart", "", "Chart whose data to write for .csv output, instead of a table")
	return cmd
}

// writeCSV creates path and runs write. A failed close is an error.
func (a *app) writeCSV(path string, write func(io.Writer) error, fields ...zap.Field) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.log.Info("csv written", append([]zap.Field{zap.String("path", path)}, fields...)...)
	return nil
}

// build runs the dashboard pipeline for the configured term.
func (a *app) build() (*dashboard.Dashboard, error) {
	return dashboard.Build(a.eng, a.snap, dashboard.Options{
		Term:   a.cfg.Report.Term,
		Order:  a.order,
		Logger: a.log.Named("dashboard"),
	})
}

type kpiOutput struct {
	Term   string          `json:"term" yaml:"term"`
	KPIs   []dashboard.KPI `json:"kpis" yaml:"kpis"`
	Notice string          `json:"notice,omitempty" yaml:"notice,omitempty"`
}

func kpiTable(k kpiOutput) *engine.TableData {
	title := "KPIs"
	if k.Term != "" {
		title += " (" + k.Term + ")"
	}
	t := engine.NewTable(title,
		engine.TextColumn("kpi", "KPI"),
		engine.NumberColumn("value", "Value"),
	)
	for _, kpi := range k.KPIs {
		t.Row(kpi.Label, kpi.Value)
	}
	return t.Build()
}
