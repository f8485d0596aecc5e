package metrics

import (
	"fmt"
	"strings"
)

// Season is the classification of a term label.
type Season int

const (
	Spring Season = iota
	Fall
	Other
)

// Seasons lists every season in default chronological order.
var Seasons = []Season{Spring, Fall, Other}

func (s Season) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Fall:
		return "Fall"
	default:
		return "Other"
	}
}

// MarshalText renders the season by name in JSON and YAML output.
func (s Season) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a season name.
func (s *Season) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Spring":
		*s = Spring
	case "Fall":
		*s = Fall
	case "Other":
		*s = Other
	default:
		return fmt.Errorf("unknown season %q", text)
	}
	return nil
}

// ClassifySeason derives a season from a term label by case-sensitive
// substring match. "Spring" is checked first, so a label containing both
// words is Spring.
func ClassifySeason(term string) Season {
	if strings.Contains(term, "Spring") {
		return Spring
	}
	if strings.Contains(term, "Fall") {
		return Fall
	}
	return Other
}
