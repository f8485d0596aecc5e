package helpers

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spektr-org/unidash/metrics"
	"github.com/spektr-org/unidash/schema"
)

// ReadSnapshot parses delimited bytes with the StudentTerms schema and
// builds a snapshot. Missing columns surface as *metrics.MissingColumnError.
func ReadSnapshot(source string, data []byte, opts ...CSVOptions) (*metrics.Snapshot, error) {
	view, err := ParseCSV(data, schema.StudentTerms(), opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	records, err := metrics.Decode(view)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return metrics.NewSnapshot(source, records), nil
}

// LoadSnapshot reads a file from disk and builds a snapshot.
func LoadSnapshot(path string, logger *zap.Logger, opts ...CSVOptions) (*metrics.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	snap, err := ReadSnapshot(path, data, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("records", snap.Len()),
		zap.String("version", snap.Version().String()))
	return snap, nil
}
