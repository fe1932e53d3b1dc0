package core

// names.go turns arbitrary column labels into storage-safe identifiers.
//
// Sanitizing is two passes that always run in order:
//
//  1. normalizeLabel: accent stripping, lower-casing, and collapsing runs of
//     whitespace and common punctuation into "_".
//  2. storageSafeName: currency symbol substitution, replacing anything
//     outside [a-zA-Z0-9_], trimming, digit guarding and truncation.
//
// The result always matches ^[a-z_][a-z0-9_]{0,299}$.

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxNameLength is the longest sanitized column name.
	MaxNameLength = 300

	// UnnamedColumn replaces labels that sanitize to nothing.
	UnnamedColumn = "unnamed_col"
)

var (
	separatorRun = regexp.MustCompile(`_*[\s/:,?!.'"\-]+_*`)
	invalidRun   = regexp.MustCompile(`_*[^a-zA-Z0-9_]+_*`)
)

var defaultVocabulary = DefaultVocabulary().compiled()

// SanitizeColumnName maps a label to a storage-safe identifier using the
// default currency vocabulary. It never fails.
func SanitizeColumnName(label string) string {
	return sanitizeName(label, defaultVocabulary)
}

// SanitizeLabel sanitizes a label of any type by its fmt string form.
func SanitizeLabel(label any) string {
	if label == nil {
		return SanitizeColumnName("")
	}
	if s, ok := label.(string); ok {
		return SanitizeColumnName(s)
	}
	return SanitizeColumnName(fmt.Sprint(label))
}

func sanitizeName(label string, vocab Vocabulary) string {
	base, err := normalizeLabel(label)
	if err != nil {
		base = label
	}
	return storageSafeName(base, vocab.currency)
}

func normalizeLabel(label string) (string, error) {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(stripAccents, label)
	if err != nil {
		return "", fmt.Errorf("normalize label %q: %w", label, err)
	}
	s = strings.TrimSpace(strings.ToLower(s))
	return separatorRun.ReplaceAllString(s, "_"), nil
}

func storageSafeName(s string, currency []CurrencyToken) string {
	s = substituteCurrency(s, currency)
	s = invalidRun.ReplaceAllString(s, "_")
	s = strings.ToLower(strings.Trim(s, "_"))

	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if s == "" {
		s = UnnamedColumn
	}
	if len(s) > MaxNameLength {
		s = strings.TrimRight(s[:MaxNameLength], "_")
	}
	return s
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIAlnum(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9')
}

// substituteCurrency replaces currency symbols case-insensitively, trying
// tokens in order. Symbols that start with a letter only match at a word
// start, so "data$" is not read as "dat" + "A$". A code's edge underscore is
// dropped when the neighbouring character is already "_".
func substituteCurrency(s string, tokens []CurrencyToken) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	for i := 0; i < len(s); {
		matched := false
		for _, ct := range tokens {
			n := len(ct.Symbol)
			if i+n > len(s) || !strings.EqualFold(s[i:i+n], ct.Symbol) {
				continue
			}
			if isASCIILetter(ct.Symbol[0]) && i > 0 && isASCIIAlnum(s[i-1]) {
				continue
			}
			code := ct.Code
			if strings.HasSuffix(b.String(), "_") {
				code = strings.TrimPrefix(code, "_")
			}
			if strings.HasPrefix(s[i+n:], "_") {
				code = strings.TrimSuffix(code, "_")
			}
			b.WriteString(code)
			i += n
			matched = true
			break
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// sanitizeHeaders maps every label to its sanitized name and reports the
// first pair of labels whose names collide, either directly or with another
// column's comparison name.
func sanitizeHeaders(labels []string, vocab Vocabulary) ([]string, error) {
	names := make([]string, len(labels))
	owner := make(map[string]string, len(labels))
	for i, label := range labels {
		name := sanitizeName(label, vocab)
		if prev, dup := owner[name]; dup {
			return nil, &NameCollisionError{First: prev, Second: label, Name: name}
		}
		owner[name] = label
		names[i] = name
	}
	for i, name := range names {
		if other, clash := owner[name+ComparisonSuffix]; clash {
			return nil, &NameCollisionError{First: labels[i], Second: other, Name: name + ComparisonSuffix}
		}
	}
	return names, nil
}
