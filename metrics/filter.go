package metrics

import (
	"slices"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/schema"
)

// FilterByTerm returns the records whose term equals term exactly. AllTerms
// returns a copy of every record. A term that matches nothing yields an
// empty, non-nil slice. The result never aliases the input.
func FilterByTerm(records []StudentTermRecord, term string) []StudentTermRecord {
	if term == AllTerms {
		out := slices.Clone(records)
		if out == nil {
			out = []StudentTermRecord{}
		}
		return out
	}
	view := engine.ApplyFilters(bind(records), engine.Filters{
		Dimensions: map[string][]string{schema.KeyTerm: {term}},
	})
	return engine.Collect(records, view)
}

// FilterBySeason returns the records whose term classifies as s.
func FilterBySeason(records []StudentTermRecord, s Season) []StudentTermRecord {
	view := engine.ApplyFilters(bind(records), engine.Filters{
		Dimensions: map[string][]string{dimSeason: {s.String()}},
	})
	return engine.Collect(records, view)
}
