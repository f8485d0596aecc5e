package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "unidash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func flagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("file", "f", "", "")
	fs.String("delimiter", ",", "")
	fs.StringP("term", "t", "All", "")
	fs.String("order", "chronological", "")
	fs.StringP("format", "o", "pretty", "")
	fs.String("log-level", "warn", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

// ============================================================================
// LOAD
// ============================================================================

func TestLoadDefaultsRequireDataPath(t *testing.T) {
	t.Parallel()

	_, err := Load("", nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "data.path")
	assert.Len(t, verr.Fields, 1, "every other key has a default")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
data:
  path: students.csv
  delimiter: ";"
report:
  term: Fall 2022
  order: lexical
  format: yaml
seasons:
  spring: 1
  fall: 0
log:
  level: debug
  format: json
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "students.csv", cfg.Data.Path)
	assert.Equal(t, ';', cfg.Data.Rune())
	assert.Equal(t, "Fall 2022", cfg.Report.Term)
	assert.Equal(t, "lexical", cfg.Report.Order)
	assert.Equal(t, "yaml", cfg.Report.Format)
	assert.Equal(t, SeasonsConfig{Spring: 1, Fall: 0, Other: 2}, cfg.Seasons)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "data:\n  path: students.csv\nreport:\n  term: Fall 2022\n")
	cfg, err := Load(path, flagSet(t, "--term", "Spring 2023", "-o", "table"))
	require.NoError(t, err)

	assert.Equal(t, "Spring 2023", cfg.Report.Term)
	assert.Equal(t, "table", cfg.Report.Format)
	assert.Equal(t, "students.csv", cfg.Data.Path, "unset flags do not shadow the file")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("UNIDASH_DATA_PATH", "/data/students.csv")
	t.Setenv("UNIDASH_REPORT_ORDER", "lexical")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/data/students.csv", cfg.Data.Path)
	assert.Equal(t, "lexical", cfg.Report.Order)
}

// ============================================================================
// VALIDATE
// ============================================================================

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Data:    DataConfig{Path: "students.csv", Delimiter: ","},
			Report:  ReportConfig{Term: "All", Order: "chronological", Format: "pretty"},
			Seasons: SeasonsConfig{Spring: 0, Fall: 1, Other: 2},
			Log:     LogConfig{Level: "warn", Format: "console"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		key    string
	}{
		{"format", func(c *Config) { c.Report.Format = "html" }, "report.format"},
		{"order", func(c *Config) { c.Report.Order = "random" }, "report.order"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"term", func(c *Config) { c.Report.Term = "" }, "report.term"},
		{"negative ordinal", func(c *Config) { c.Seasons.Other = -1 }, "seasons.other"},
		{"multi-character delimiter", func(c *Config) { c.Data.Delimiter = ";;" }, "data.delimiter"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(&c)
			err := c.Validate()

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.key)
			assert.Contains(t, err.Error(), tt.key)
		})
	}

	c := valid()
	assert.NoError(t, c.Validate())
}

func TestValidationErrorIsSorted(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{"report.format": "bad", "data.path": "is required"}}
	assert.Equal(t, "invalid configuration: data.path: is required; report.format: bad", err.Error())
}
