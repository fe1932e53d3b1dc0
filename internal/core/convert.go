package core

// convert.go holds the per-cell parsers behind the type hypotheses.
//
// They deal with the messy reality of spreadsheet exports:
//   - Currency symbols, thousands separators and stray whitespace in numbers
//   - Accounting negatives written as "(123.45)"
//   - Dates in ISO, US, EU and long-month forms, with 2-digit years
//   - Bare times of day, which resolve against the current date
//
// Parsers never fail loudly: an unparseable value is reported with ok=false
// and becomes a missing cell in the coerced column.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// numericRegex validates a number after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var accountingNegative = regexp.MustCompile(`^\((.*)\)$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are
// moved to the previous century.
var TwoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02 15:04",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "1/2/2006 15:04:05", "1/2/2006 15:04", "1-2-2006", "1.2.2006",
		"Jan 2, 2006", "January 2, 2006", "Jan 2 2006", "2 Jan 2006", "2 January 2006", "02-Jan-2006",
		"20060102",
	}
	timeOfDayLayouts = []string{
		"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04:05 PM",
	}
)

// now is the clock bare times of day are resolved against.
var now = time.Now

// parseNumeric cleans s and parses it as a float. Characters in strip,
// commas and whitespace are removed first, then "(X)" is rewritten to "-X".
// The cleaned text is returned alongside the value.
func parseNumeric(s string, strip map[rune]struct{}) (string, float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		if _, ok := strip[r]; ok {
			return -1
		}
		return r
	}, s)
	cleaned = accountingNegative.ReplaceAllString(cleaned, "-$1")

	if !numericRegex.MatchString(cleaned) {
		return "", 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return "", 0, false
	}
	return cleaned, v, true
}

// ParseNumber parses s with the default currency symbols stripped.
func ParseNumber(s string) (float64, bool) {
	_, v, ok := parseNumeric(s, defaultVocabulary.numericStrip)
	return v, ok
}

// numberCell builds the coerced cell for a parsed number. Integer literals
// keep their exact digits, so values past 2^53 survive the float.
func numberCell(cleaned string, v float64) Cell {
	if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return Number(strconv.FormatInt(n, 10), v)
	}
	return Float(v)
}

// ParseDate parses a date or timestamp. Fixed layouts are tried first,
// 4-digit years before 2-digit ones, and anything else falls through to a
// free-form parser. Results without a zone are in UTC. A free-form parse
// that yields no year is rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			y, m, d := now().UTC().Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}

	return parseFreeformDate(s)
}

func parseFreeformDate(s string) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}
	return t, true
}

// dateOf coerces a cell to a timestamp.
func dateOf(c Cell) (time.Time, bool) {
	switch c.Kind {
	case KindTime:
		return c.Time, true
	case KindText, KindNumber:
		return ParseDate(c.Text)
	default:
		return time.Time{}, false
	}
}

// isIntegral reports whether v has no fractional part.
func isIntegral(v float64) bool {
	return math.Mod(v, 1) == 0
}
