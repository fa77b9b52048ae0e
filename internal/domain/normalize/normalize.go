// Package normalize turns locale-formatted message fields into the
// canonical values the rest of the pipeline compares on: decimal
// amounts, day-granularity dates, and stripped-down descriptions.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Letters (including the accented letters of the supported
	// locales), digits and whitespace survive; everything else goes.
	descriptionStripRe = regexp.MustCompile(`[^a-z0-9àèéìòùáéíóú\s]`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
)

// ParseAmount parses an amount captured from bank text. Both decimal
// commas and decimal points are accepted ("12,50" and "12.50" parse to
// the same value); embedded whitespace is ignored.
//
// The second return value reports whether the text held a usable
// number. Callers that need the legacy zero-degrade behavior can drop
// it, but a false here means "extraction produced no value", never a
// legitimate zero-amount transaction.
func ParseAmount(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(text, ",", ".")
	cleaned = strings.Join(strings.Fields(cleaned), "")
	if cleaned == "" {
		return 0, false
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}

// DateFromMillis truncates a Unix-milliseconds timestamp to its UTC
// calendar date, formatted YYYY-MM-DD. Downstream matching only works
// at day granularity, so time-of-day is discarded on purpose.
func DateFromMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(DateLayout)
}

// DateLayout is the canonical date format used across the pipeline.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Description reduces free text to a comparable form: lowercase, only
// letters/digits/spaces kept, runs of whitespace collapsed, trimmed.
func Description(text string) string {
	out := strings.ToLower(text)
	out = descriptionStripRe.ReplaceAllString(out, "")
	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
