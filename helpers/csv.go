package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/spektr-org/unidash/engine"
	"github.com/spektr-org/unidash/schema"
)

// ============================================================================
// CSV HELPER — Parses delimited data into a RecordView
// ============================================================================
// Consumer reads the file from wherever it lives.
// This helper converts the raw bytes into generic Records using the schema.
// Only columns present in the file are declared as view keys, so the engine
// can tell a missing column from a blank one.
// ============================================================================

// CSVOptions controls parsing.
type CSVOptions struct {
	Delimiter rune // default ','
}

// ParseCSV parses delimited bytes into Records using the schema to map
// headers onto keys. Blank cells are left out of the record. A measure cell
// that is not a number is an error; unmapped columns are skipped.
func ParseCSV(data []byte, sch schema.Config, opts ...CSVOptions) (engine.RecordView, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if len(opts) > 0 && opts[0].Delimiter != 0 {
		reader.Comma = opts[0].Delimiter
	}

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return engine.NewSliceViewWithKeys(nil, nil, nil), nil
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	columns := sch.Resolve(headers)

	var dimKeys, mesKeys []string
	for _, c := range columns {
		switch c.Kind {
		case schema.KindDimension:
			dimKeys = append(dimKeys, c.Key)
		case schema.KindMeasure:
			mesKeys = append(mesKeys, c.Key)
		}
	}

	var records []engine.Record
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}
		if isBlankRow(row) {
			continue
		}

		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}

		for i, val := range row {
			if i >= len(columns) {
				break
			}
			c := columns[i]
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}

			switch c.Kind {
			case schema.KindDimension:
				rec.Dimensions[c.Key] = val
			case schema.KindMeasure:
				f, err := parseNumber(val)
				if err != nil {
					return nil, fmt.Errorf("row %d, column %q: %w", line, headers[i], err)
				}
				rec.Measures[c.Key] = f
			}
		}

		records = append(records, rec)
	}

	return engine.NewSliceViewWithKeys(records, dimKeys, mesKeys), nil
}

// groupedNumber matches a thousands-grouped number such as "30,000" or
// "1,234.5%". A comma anywhere else is not a separator.
var groupedNumber = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?%?$`)

// parseNumber accepts plain numbers, thousands-grouped ones and a trailing
// "%". A decimal comma ("89,2") is rejected rather than read as 892.
func parseNumber(s string) (float64, error) {
	if strings.Contains(s, ",") {
		if !groupedNumber.MatchString(s) {
			return 0, fmt.Errorf("malformed number %q", s)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	s = strings.TrimSuffix(s, "%")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
