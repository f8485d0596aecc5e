// Package config loads unidash settings from defaults, a YAML file,
// UNIDASH_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. UNIDASH_DATA_PATH.
const EnvPrefix = "UNIDASH"

// Config is the complete application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Report  ReportConfig  `mapstructure:"report"`
	Seasons SeasonsConfig `mapstructure:"seasons"`
	Export  ExportConfig  `mapstructure:"export"`
	Log     LogConfig     `mapstructure:"log"`
}

// DataConfig locates the input file.
type DataConfig struct {
	Path      string `mapstructure:"path" validate:"required"`
	Delimiter string `mapstructure:"delimiter" validate:"required"`
}

// Rune returns the delimiter as a rune.
func (d DataConfig) Rune() rune {
	r, _ := utf8.DecodeRuneInString(d.Delimiter)
	return r
}

// ReportConfig selects what to compute and how to print it.
type ReportConfig struct {
	Term   string `mapstructure:"term" validate:"required"`
	Order  string `mapstructure:"order" validate:"oneof=chronological lexical"`
	Format string `mapstructure:"format" validate:"oneof=json pretty yaml table"`
}

// SeasonsConfig sets the within-year position of each season used for
// chronological ordering.
type SeasonsConfig struct {
	Spring int `mapstructure:"spring" validate:"gte=0"`
	Fall   int `mapstructure:"fall" validate:"gte=0"`
	Other  int `mapstructure:"other" validate:"gte=0"`
}

// ExportConfig is the default export destination.
type ExportConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"file":       "data.path",
	"delimiter":  "data.delimiter",
	"term":       "report.term",
	"order":      "report.order",
	"format":     "report.format",
	"out":        "export.path",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load reads configuration. An empty path searches ./unidash.yaml and
// ./config/unidash.yaml; a missing file is not an error. Flags may be nil;
// otherwise every flag named in FlagKeys that is present in the set is
// bound to its key.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("data.path", "")
	v.SetDefault("data.delimiter", ",")
	v.SetDefault("report.term", "All")
	v.SetDefault("report.order", "chronological")
	v.SetDefault("report.format", "pretty")
	v.SetDefault("seasons.spring", 0)
	v.SetDefault("seasons.fall", 1)
	v.SetDefault("seasons.other", 2)
	v.SetDefault("export.path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	// ── file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("unidash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// ── environment ──
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// ── flags ──
	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("error binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidationError lists every invalid key with a readable reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config key, not the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the struct tags and the delimiter.
func (c *Config) Validate() error {
	fields := make(map[string]string)

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			fields[keyOf(e.Namespace())] = describe(e)
		}
	}
	if c.Data.Delimiter != "" && utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		fields["data.delimiter"] = "must be a single character"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// keyOf turns "Config.report.order" into "report.order".
func keyOf(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("failed %s check", e.Tag())
	}
}
