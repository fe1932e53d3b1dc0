package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies which variant a Cell holds.
type CellKind uint8

const (
	KindMissing CellKind = iota
	KindText
	KindNumber
	KindBool
	KindTime
)

func (k CellKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// TimeLayout is the string form of time cells.
const TimeLayout = "2006-01-02 15:04:05"

// Cell is a single table value. Exactly one variant is meaningful,
// selected by Kind. Number cells keep the raw text they were read from
// alongside the parsed value.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
	Bool bool
	Time time.Time
}

// Missing returns the missing-value cell.
func Missing() Cell { return Cell{} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Number returns a numeric cell with its raw source text.
func Number(raw string, v float64) Cell { return Cell{Kind: KindNumber, Text: raw, Num: v} }

// Float returns a numeric cell whose raw text is the shortest
// representation of v.
func Float(v float64) Cell {
	return Number(strconv.FormatFloat(v, 'f', -1, 64), v)
}

// Int64 returns the exact integer held by a number cell. Integer raw text
// is parsed directly; otherwise an integral float in range is converted.
func (c Cell) Int64() (int64, bool) {
	if c.Kind != KindNumber {
		return 0, false
	}
	if n, err := strconv.ParseInt(c.Text, 10, 64); err == nil {
		return n, true
	}
	if !isIntegral(c.Num) || c.Num < math.MinInt64 || c.Num >= math.MaxInt64 {
		return 0, false
	}
	return int64(c.Num), true
}

// Bool returns a boolean cell.
func Bool(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// Time returns a timestamp cell.
func Time(t time.Time) Cell { return Cell{Kind: KindTime, Time: t} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// String returns the cell's string form: raw text for text and number
// cells, "true"/"false" for booleans, TimeLayout for times, and "" when
// missing.
func (c Cell) String() string {
	switch c.Kind {
	case KindText, KindNumber:
		return c.Text
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindTime:
		return c.Time.Format(TimeLayout)
	default:
		return ""
	}
}

// Canonical is the trimmed, lower-cased string form used for vocabulary lookups.
func (c Cell) Canonical() string {
	return strings.ToLower(strings.TrimSpace(c.String()))
}

// Equal reports whether two cells hold the same variant and value.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindMissing:
		return true
	case KindText:
		return c.Text == o.Text
	case KindNumber:
		if a, ok := c.Int64(); ok {
			if b, ok := o.Int64(); ok {
				return a == b
			}
		}
		return c.Num == o.Num
	case KindBool:
		return c.Bool == o.Bool
	case KindTime:
		return c.Time.Equal(o.Time)
	}
	return false
}

// TypeTag is the inferred type of a column.
type TypeTag string

const (
	TypeEmpty    TypeTag = "EMPTY"
	TypeBoolean  TypeTag = "BOOLEAN"
	TypeInteger  TypeTag = "INTEGER"
	TypeFloat    TypeTag = "FLOAT"
	TypeDatetime TypeTag = "DATETIME"
	TypeString   TypeTag = "STRING"
)

// FailureReason is the quarantine reason recorded for a cell that could not
// be coerced to tag.
func FailureReason(tag TypeTag) string {
	return "Failed to parse as " + string(tag)
}

// QuarantineRecord describes one cell that was present before coercion and
// missing after it.
type QuarantineRecord struct {
	RowID    int     `json:"original_index"`
	Column   string  `json:"column"`
	Original Cell    `json:"-"`
	Type     TypeTag `json:"type"`
	Reason   string  `json:"reason"`
}

// Describe renders the record the way it appears in quarantine_reason.
func (r QuarantineRecord) Describe() string {
	return fmt.Sprintf("Column '%s': Value '%s' (%s)", r.Column, r.Original.String(), r.Reason)
}

// MarshalJSON includes the original value's string form.
func (r QuarantineRecord) MarshalJSON() ([]byte, error) {
	type alias QuarantineRecord
	return json.Marshal(struct {
		alias
		Original string `json:"original_value"`
	}{alias(r), r.Original.String()})
}

// ColumnType pairs a sanitized column name with its inferred type.
type ColumnType struct {
	Name string  `json:"name"`
	Type TypeTag `json:"type"`
}

// TypeReport maps sanitized column names to inferred types, in column order.
type TypeReport []ColumnType

// Get returns the tag recorded for name.
func (r TypeReport) Get(name string) (TypeTag, bool) {
	for _, ct := range r {
		if ct.Name == name {
			return ct.Type, true
		}
	}
	return "", false
}

// Counts returns how many columns were assigned each tag.
func (r TypeReport) Counts() map[TypeTag]int {
	counts := make(map[TypeTag]int, len(r))
	for _, ct := range r {
		counts[ct.Type]++
	}
	return counts
}

// MarshalJSON writes the report as a JSON object that preserves column order.
func (r TypeReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ct := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ct.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Quote(string(ct.Type)))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object written by MarshalJSON, keeping key order.
func (r *TypeReport) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil {
		return err
	} else if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("type report: expected object, got %v", tok)
	}

	out := TypeReport{}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return err
		}
		var tag TypeTag
		if err := dec.Decode(&tag); err != nil {
			return fmt.Errorf("type report: column %v: %w", key, err)
		}
		out = append(out, ColumnType{Name: key.(string), Type: tag})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
