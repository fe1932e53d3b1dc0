package core

import (
	"unicode/utf8"
)

// ColumnInference is the outcome of running one column through the gauntlet.
type ColumnInference struct {
	Type         TypeTag
	Standardized []Cell
	Coerced      []Cell
}

// InferColumn standardizes cells and classifies them. The first hypothesis
// that holds wins, in order: BOOLEAN, NUMERIC (INTEGER or FLOAT), DATETIME,
// STRING. A column with no present values after standardization is EMPTY.
func InferColumn(cells []Cell, opts Options) (ColumnInference, error) {
	opts, err := opts.normalize()
	if err != nil {
		return ColumnInference{}, err
	}
	return opts.inferColumn(cells), nil
}

func (o Options) inferColumn(raw []Cell) ColumnInference {
	std := StandardizeColumn(raw, o.Vocabulary)
	present := countPresent(std)
	if present == 0 {
		return ColumnInference{Type: TypeEmpty, Standardized: std, Coerced: std}
	}

	if coerced, ok := o.tryBoolean(std); ok {
		return ColumnInference{Type: TypeBoolean, Standardized: std, Coerced: coerced}
	}
	if coerced, tag, ok := o.tryNumeric(std, present); ok {
		return ColumnInference{Type: tag, Standardized: std, Coerced: coerced}
	}
	if coerced, ok := o.tryDatetime(std, present); ok {
		return ColumnInference{Type: TypeDatetime, Standardized: std, Coerced: coerced}
	}
	return ColumnInference{Type: TypeString, Standardized: std, Coerced: std}
}

// tryBoolean holds when every distinct canonical value is a boolean token.
func (o Options) tryBoolean(std []Cell) ([]Cell, bool) {
	out := make([]Cell, len(std))
	for i, c := range std {
		if c.IsMissing() {
			continue
		}
		v, ok := o.Vocabulary.boolValue(c.Canonical())
		if !ok {
			return nil, false
		}
		out[i] = Bool(v)
	}
	return out, true
}

// tryNumeric holds when the share of parseable values reaches the threshold.
// The column is INTEGER when every parsed value is integral.
func (o Options) tryNumeric(std []Cell, present int) ([]Cell, TypeTag, bool) {
	out := make([]Cell, len(std))
	parsed := 0
	integral := true
	for i, c := range std {
		if c.IsMissing() {
			continue
		}
		cleaned, v, ok := parseNumeric(c.String(), o.Vocabulary.numericStrip)
		if !ok {
			continue
		}
		out[i] = numberCell(cleaned, v)
		parsed++
		if !isIntegral(v) {
			integral = false
		}
	}

	if float64(parsed)/float64(present) < o.Threshold {
		return nil, "", false
	}
	if integral {
		return out, TypeInteger, true
	}
	return out, TypeFloat, true
}

// tryDatetime measures the parse ratio over short candidates only, but
// divides by every present value. On success the full column is parsed.
func (o Options) tryDatetime(std []Cell, present int) ([]Cell, bool) {
	parsed := 0
	for _, c := range std {
		if c.IsMissing() || utf8.RuneCountInString(c.String()) >= o.DateCandidateMaxLen {
			continue
		}
		if _, ok := dateOf(c); ok {
			parsed++
		}
	}
	if float64(parsed)/float64(present) < o.Threshold {
		return nil, false
	}

	out := make([]Cell, len(std))
	for i, c := range std {
		if c.IsMissing() {
			continue
		}
		if t, ok := dateOf(c); ok {
			out[i] = Time(t)
		}
	}
	return out, true
}
