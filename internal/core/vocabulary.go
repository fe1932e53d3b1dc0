package core

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// CurrencyToken maps a currency symbol to the text that replaces it in
// column names.
type CurrencyToken struct {
	Symbol string
	Code   string
}

// Vocabulary holds the token sets that drive junk detection, boolean
// inference and currency handling. Token membership is tested against a
// cell's canonical (trimmed, lower-cased) form.
type Vocabulary struct {
	Junk     []string
	True     []string
	False    []string
	Currency []CurrencyToken

	junk, truth, falsity map[string]struct{}
	currency             []CurrencyToken
	numericStrip         map[rune]struct{}
}

// DefaultVocabulary returns the built-in vocabularies.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Junk:  []string{"na", "n/a", "#na", "null", "none", "pending", "unknown", "undefined", "--", "...", ""},
		True:  []string{"true", "1", "yes", "y", "t", "active", "on"},
		False: []string{"false", "0", "no", "n", "f", "inactive", "off"},
		Currency: []CurrencyToken{
			{"C$", "_cad_"},
			{"A$", "_aud_"},
			{"€", "_eur_"},
			{"$", "_usd_"},
			{"£", "gbp"},
			{"¥", "jpy"},
			{"₹", "inr"},
			{"₩", "krw"},
			{"₽", "rub"},
		},
	}
}

// Extend returns a copy with extra tokens appended to the junk, true and
// false sets.
func (v Vocabulary) Extend(junk, truthy, falsy []string) Vocabulary {
	return Vocabulary{
		Junk:     append(append([]string(nil), v.Junk...), junk...),
		True:     append(append([]string(nil), v.True...), truthy...),
		False:    append(append([]string(nil), v.False...), falsy...),
		Currency: append([]CurrencyToken(nil), v.Currency...),
	}
}

// Validate checks that the boolean sets are non-empty and disjoint and that
// every currency token has a symbol.
func (v Vocabulary) Validate() error {
	if len(v.True) == 0 || len(v.False) == 0 {
		return fmt.Errorf("vocabulary: true and false sets must be non-empty")
	}
	falsy := canonicalSet(v.False)
	for _, tok := range v.True {
		if _, ok := falsy[canonicalToken(tok)]; ok {
			return fmt.Errorf("vocabulary: %q is both true and false", tok)
		}
	}
	for _, ct := range v.Currency {
		if ct.Symbol == "" {
			return fmt.Errorf("vocabulary: currency token with empty symbol")
		}
	}
	return nil
}

// compiled returns v with lookup tables built. Currency tokens are ordered
// longest symbol first so multi-character symbols win over their suffixes.
func (v Vocabulary) compiled() Vocabulary {
	if v.junk != nil {
		return v
	}
	v.junk = canonicalSet(v.Junk)
	v.truth = canonicalSet(v.True)
	v.falsity = canonicalSet(v.False)

	v.currency = append([]CurrencyToken(nil), v.Currency...)
	sort.SliceStable(v.currency, func(i, j int) bool {
		return utf8.RuneCountInString(v.currency[i].Symbol) > utf8.RuneCountInString(v.currency[j].Symbol)
	})

	v.numericStrip = make(map[rune]struct{})
	for _, ct := range v.currency {
		if utf8.RuneCountInString(ct.Symbol) == 1 {
			r, _ := utf8.DecodeRuneInString(ct.Symbol)
			v.numericStrip[r] = struct{}{}
		}
	}
	return v
}

func (v Vocabulary) isJunk(canonical string) bool {
	_, ok := v.junk[canonical]
	return ok
}

func (v Vocabulary) boolValue(canonical string) (value, ok bool) {
	if _, t := v.truth[canonical]; t {
		return true, true
	}
	if _, f := v.falsity[canonical]; f {
		return false, true
	}
	return false, false
}

func canonicalToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func canonicalSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[canonicalToken(tok)] = struct{}{}
	}
	return set
}
