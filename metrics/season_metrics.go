package metrics

import (
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/spektr-org/unidash/engine"
)

// SeasonMetrics is one aggregated season. HasData is false when no record
// fell in the season; its numeric fields are then all null, which keeps
// "no such season" apart from "zero enrolled".
type SeasonMetrics struct {
	Season           Season       `json:"season"`
	HasData          bool         `json:"hasData"`
	Records          int          `json:"records"`
	Terms            []string     `json:"terms"`
	Applications     null.Int     `json:"applications"`
	Admitted         null.Int     `json:"admitted"`
	Enrolled         null.Int     `json:"enrolled"`
	RetentionRatePct null.Float64 `json:"retentionRatePct"`
	SatisfactionPct  null.Float64 `json:"satisfactionPct"`
}

// Yield is enrolled as a percentage of admitted.
func (s SeasonMetrics) Yield() null.Float64 {
	return ratio(s.Enrolled, s.Admitted)
}

// SeasonTable always holds one row per season, in Seasons order.
type SeasonTable struct {
	Rows []SeasonMetrics `json:"rows"`
}

// Get returns the row for a season.
func (t SeasonTable) Get(s Season) SeasonMetrics {
	for _, r := range t.Rows {
		if r.Season == s {
			return r
		}
	}
	return SeasonMetrics{Season: s}
}

// AggregateBySeason groups records by their derived season with the same
// sum/mean rules as AggregateByTerm.
func (e *Engine) AggregateBySeason(records []StudentTermRecord) SeasonTable {
	view := bind(records)

	bySeason := make(map[string]engine.Group)
	for _, g := range engine.GroupBy(view, dimSeason) {
		bySeason[g.Key] = g
	}

	table := SeasonTable{Rows: make([]SeasonMetrics, 0, len(Seasons))}
	for _, s := range Seasons {
		g, ok := bySeason[s.String()]
		if !ok {
			table.Rows = append(table.Rows, SeasonMetrics{Season: s, Terms: []string{}})
			continue
		}
		sum := summarize(g.View)
		table.Rows = append(table.Rows, SeasonMetrics{
			Season:           s,
			HasData:          true,
			Records:          sum.Records,
			Terms:            e.Terms(engine.Collect(records, g.View)),
			Applications:     sum.Applications,
			Admitted:         sum.Admitted,
			Enrolled:         sum.Enrolled,
			RetentionRatePct: sum.RetentionRatePct,
			SatisfactionPct:  sum.SatisfactionPct,
		})
	}

	e.log.Debug("aggregated by season", zap.Int("records", len(records)), zap.Int("groups", len(bySeason)))
	return table
}
