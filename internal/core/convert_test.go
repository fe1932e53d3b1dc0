package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   float64
	}{
		{name: "positive integer", input: "123", wantOK: true, want: 123},
		{name: "negative integer", input: "-456", wantOK: true, want: -456},
		{name: "leading decimal point", input: ".99", wantOK: true, want: 0.99},
		{name: "trailing decimal point", input: "99.", wantOK: true, want: 99},
		{name: "scientific notation", input: "1.5e3", wantOK: true, want: 1500},

		// Currency and separators
		{name: "dollar with thousands", input: "$1,000", wantOK: true, want: 1000},
		{name: "euro", input: "€42.50", wantOK: true, want: 42.5},
		{name: "pound", input: "£7", wantOK: true, want: 7},
		{name: "inner whitespace", input: " 1 234 ", wantOK: true, want: 1234},

		// Accounting negatives
		{name: "accounting negative", input: "(100.50)", wantOK: true, want: -100.5},
		{name: "accounting with currency", input: "($1,234.56)", wantOK: true, want: -1234.56},

		// Invalid
		{name: "empty", input: "", wantOK: false},
		{name: "word", input: "bad", wantOK: false},
		{name: "double negative", input: "(-5)", wantOK: false},
		{name: "empty parentheses", input: "()", wantOK: false},
		{name: "infinity", input: "1e400", wantOK: false},
		{name: "two points", input: "1.2.3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   time.Time
	}{
		{name: "ISO date", input: "2024-01-15", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "ISO timestamp", input: "2024-01-15 10:30:00", wantOK: true, want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC3339", input: "2024-01-15T10:30:00Z", wantOK: true, want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "US slash", input: "01/16/2024", wantOK: true, want: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)},
		{name: "US short", input: "1/2/2024", wantOK: true, want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "long month", input: "Jan 17, 2024", wantOK: true, want: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)},
		{name: "day month year", input: "2 Jan 2024", wantOK: true, want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding whitespace", input: "  2024-03-01 ", wantOK: true, want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},

		{name: "empty", input: "", wantOK: false},
		{name: "word", input: "nope", wantOK: false},
		{name: "currency amount", input: "$1,000", wantOK: false},
		{name: "decimal", input: "1.5", wantOK: false},
		{name: "decimal with two places", input: "3.14", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// fixClock pins the date bare times of day resolve against.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestParseDate_TimeOfDay(t *testing.T) {
	fixClock(t, time.Date(2024, 5, 6, 22, 0, 0, 0, time.UTC))

	tests := []struct {
		input string
		want  time.Time
	}{
		{"10:30", time.Date(2024, 5, 6, 10, 30, 0, 0, time.UTC)},
		{"9:15", time.Date(2024, 5, 6, 9, 15, 0, 0, time.UTC)},
		{"23:59:58", time.Date(2024, 5, 6, 23, 59, 58, 0, time.UTC)},
		{"3:04 pm", time.Date(2024, 5, 6, 15, 4, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tt.input)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNumberCell(t *testing.T) {
	tests := []struct {
		cleaned  string
		wantText string
		wantInt  int64
		wantOK   bool
	}{
		{"9007199254740993", "9007199254740993", 9007199254740993, true},
		{"123456789012345679", "123456789012345679", 123456789012345679, true},
		{"-0042", "-42", -42, true},
		{"1.0", "1", 1, true},
		{"2.5", "2.5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.cleaned, func(t *testing.T) {
			_, v, ok := parseNumeric(tt.cleaned, nil)
			if !ok {
				t.Fatalf("parseNumeric(%q) failed", tt.cleaned)
			}
			c := numberCell(tt.cleaned, v)
			if c.String() != tt.wantText {
				t.Errorf("String() = %q, want %q", c.String(), tt.wantText)
			}
			n, ok := c.Int64()
			if ok != tt.wantOK || n != tt.wantInt {
				t.Errorf("Int64() = %d, %v; want %d, %v", n, ok, tt.wantInt, tt.wantOK)
			}
		})
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	got, ok := ParseDate("1/2/99")
	if !ok {
		t.Fatal("ParseDate(1/2/99) failed")
	}
	if got.Year() != 1999 {
		t.Errorf("year = %d, want 1999", got.Year())
	}

	got, ok = ParseDate("1/2/24")
	if !ok {
		t.Fatal("ParseDate(1/2/24) failed")
	}
	if got.Year() != 2024 {
		t.Errorf("year = %d, want 2024", got.Year())
	}
}

func TestDateOf_TimeCell(t *testing.T) {
	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	got, ok := dateOf(Time(ts))
	if !ok || !got.Equal(ts) {
		t.Errorf("dateOf(Time) = %v, %v; want %v, true", got, ok, ts)
	}
	if _, ok := dateOf(Bool(true)); ok {
		t.Error("dateOf(Bool) should fail")
	}
}
