package schema

import (
	"strings"
	"unicode"
)

// ============================================================================
// SCHEMA — Describes the logical shape of a dataset
// ============================================================================
// The loader uses a Config to map file headers onto record keys; the
// metrics engine uses the same keys to read records. Nothing here depends on
// the file format.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key         string `json:"key"`
	Header      string `json:"header"` // column header in the source file
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	IsTemporal  bool   `json:"isTemporal,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string `json:"key"`
	Header             string `json:"header"`
	DisplayName        string `json:"displayName"`
	Description        string `json:"description,omitempty"`
	Unit               string `json:"unit,omitempty"` // "count", "percent", "year"
	Required           bool   `json:"required"`
	DefaultAggregation string `json:"defaultAggregation,omitempty"` // "sum", "avg"
}

// RequiredKeys returns the keys of every required column, dimensions first.
func (c Config) RequiredKeys() []string {
	var keys []string
	for _, d := range c.Dimensions {
		if d.Required {
			keys = append(keys, d.Key)
		}
	}
	for _, m := range c.Measures {
		if m.Required {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// HeaderFor returns the source header declared for a key, or the key itself.
func (c Config) HeaderFor(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.Header
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.Header
		}
	}
	return key
}

// ============================================================================
// HEADER RESOLUTION
// ============================================================================

// ColumnKind says how a resolved column is read.
type ColumnKind int

const (
	KindUnmapped ColumnKind = iota
	KindDimension
	KindMeasure
)

// Column is one resolved file column.
type Column struct {
	Key  string
	Kind ColumnKind
}

// Resolve maps file headers onto schema keys. A header matches a column when
// its normalized form equals the normalized declared header or the key.
// Unknown headers and repeats of an already matched column resolve to
// KindUnmapped. Required columns absent from the file are left for the
// decoder to report.
func (c Config) Resolve(headers []string) []Column {
	lookup := make(map[string]Column)
	for _, d := range c.Dimensions {
		col := Column{Key: d.Key, Kind: KindDimension}
		lookup[Normalize(d.Header)] = col
		lookup[Normalize(d.Key)] = col
	}
	for _, m := range c.Measures {
		col := Column{Key: m.Key, Kind: KindMeasure}
		lookup[Normalize(m.Header)] = col
		lookup[Normalize(m.Key)] = col
	}

	seen := make(map[string]bool)
	columns := make([]Column, len(headers))
	for i, h := range headers {
		col, ok := lookup[Normalize(h)]
		if !ok || seen[col.Key] {
			columns[i] = Column{Kind: KindUnmapped}
			continue
		}
		seen[col.Key] = true
		columns[i] = col
	}
	return columns
}

// Normalize folds a header for matching: "Retention Rate (%)" and
// "retention_rate_(%)" both become "retention_rate_(%)".
func Normalize(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))

	var result strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			if !lastUnderscore && result.Len() > 0 {
				result.WriteRune('_')
				lastUnderscore = true
			}
			continue
		}
		result.WriteRune(unicode.ToLower(r))
		lastUnderscore = false
	}
	return strings.TrimRight(result.String(), "_")
}
