package metrics

import (
	"fmt"
	"maps"
	"strings"

	"go.uber.org/zap"
)

// ============================================================================
// ENGINE — configuration and ordering rules shared by every aggregation
// ============================================================================
// The engine holds no data. Every method reads the records it is given and
// returns new tables; nothing is cached between calls.
// ============================================================================

// Option configures the engine via the functional options pattern.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	ordinals map[Season]int
}

// WithLogger sets the logger used for debug traces. Defaults to a no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTermOrdinals overrides the within-year position of seasons used for
// chronological ordering. Unlisted seasons keep their defaults
// (Spring=0, Fall=1, Other=2).
func WithTermOrdinals(ordinals map[Season]int) Option {
	return func(c *config) {
		maps.Copy(c.ordinals, ordinals)
	}
}

// Engine computes the derived metric tables.
type Engine struct {
	log      *zap.Logger
	ordinals map[Season]int
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := &config{
		logger:   zap.NewNop(),
		ordinals: map[Season]int{Spring: 0, Fall: 1, Other: 2},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Engine{log: cfg.logger, ordinals: cfg.ordinals}
}

// Ordinal returns the within-year position of a season.
func (e *Engine) Ordinal(s Season) int {
	return e.ordinals[s]
}

// ============================================================================
// ORDERING
// ============================================================================

// Ordering selects how term rows are presented.
type Ordering int

const (
	// Chronological orders by (year, season ordinal), then label.
	Chronological Ordering = iota
	// Lexical orders by the term label string.
	Lexical
)

func (o Ordering) String() string {
	if o == Lexical {
		return "lexical"
	}
	return "chronological"
}

// ParseOrdering accepts "chronological" or "lexical" (case-insensitive).
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chronological":
		return Chronological, nil
	case "lexical":
		return Lexical, nil
	}
	return Chronological, fmt.Errorf("unknown ordering %q (want chronological or lexical)", s)
}

// termKey is the chronological sort key of a term.
type termKey struct {
	year    int
	ordinal int
	label   string
}

func (e *Engine) keyOf(year int, label string) termKey {
	return termKey{year: year, ordinal: e.Ordinal(ClassifySeason(label)), label: label}
}

func (k termKey) before(o termKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	if k.ordinal != o.ordinal {
		return k.ordinal < o.ordinal
	}
	return k.label < o.label
}
