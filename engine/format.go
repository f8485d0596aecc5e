package engine

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoValue is the cell text for an absent measure.
const NoValue = "n/a"

// printer is created per call; message.Printer is not safe for concurrent use.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// FormatInt formats an integer with thousands separators.
func FormatInt(n int) string {
	return printer().Sprintf("%d", n)
}

// FormatFloat formats a value with two decimals and thousands separators.
func FormatFloat(v float64) string {
	return printer().Sprintf("%.2f", v)
}

// FormatPercent formats a 0–100 value as "85.20%".
func FormatPercent(v float64) string {
	return printer().Sprintf("%.2f%%", v)
}

// FormatOptional applies format when valid, otherwise returns NoValue.
func FormatOptional(v float64, valid bool, format func(float64) string) string {
	if !valid {
		return NoValue
	}
	return format(v)
}

// FormatCount formats a whole-number measure.
func FormatCount(v float64) string {
	return FormatInt(int(math.Round(v)))
}
