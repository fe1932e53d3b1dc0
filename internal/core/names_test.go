package core

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

var validName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,299}$`)

func TestSanitizeColumnName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Total Spend ($)", "total_spend_usd"},
		{"Price €", "price_eur"},
		{"Revenue (A$)", "revenue_aud"},
		{"C$ Amount", "cad_amount"},
		{"Cost £", "cost_gbp"},
		{"data$", "data_usd"},
		{"Yen ¥ total", "yen_jpy_total"},
		{"2024 Sales", "_2024_sales"},
		{"Café Total", "cafe_total"},
		{"  Mixed-Case Name  ", "mixed_case_name"},
		{"user_id", "user_id"},
		{"Email Address?", "email_address"},
		{"a/b:c", "a_b_c"},
		{"#", UnnamedColumn},
		{"", UnnamedColumn},
		{"!!!", UnnamedColumn},
		{"名前", UnnamedColumn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeColumnName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeColumnName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !validName.MatchString(got) {
				t.Errorf("SanitizeColumnName(%q) = %q is not a valid identifier", tt.input, got)
			}
		})
	}
}

func TestSanitizeColumnName_Idempotent(t *testing.T) {
	inputs := []string{
		"Total Spend ($)", "C$ Amount", "2024 Sales", "Café Total", "a__b", "x1", "_9lives",
		"Weird !! Label ₽", strings.Repeat("long ", 100),
	}

	for _, in := range inputs {
		once := SanitizeColumnName(in)
		twice := SanitizeColumnName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSanitizeColumnName_TrimsEdgeUnderscores(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"_abc", "abc"},
		{"abc_", "abc"},
		{"__a_b__", "a_b"},
		{"_9lives", "_9lives"},
	}
	for _, tt := range tests {
		if got := SanitizeColumnName(tt.in); got != tt.want {
			t.Errorf("SanitizeColumnName(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := SanitizeColumnName(tt.want); got != tt.want {
			t.Errorf("SanitizeColumnName(%q) = %q, want it unchanged", tt.want, got)
		}
	}
}

func TestSanitizeColumnName_Truncates(t *testing.T) {
	got := SanitizeColumnName(strings.Repeat("a", 500))
	if len(got) != MaxNameLength {
		t.Errorf("len = %d, want %d", len(got), MaxNameLength)
	}
}

func TestSanitizeColumnName_CurrencyToken(t *testing.T) {
	codes := []string{"usd", "eur", "gbp", "jpy", "inr", "krw", "rub", "cad", "aud"}
	for _, sym := range []string{"$", "€", "£", "¥", "₹", "₩", "₽", "C$", "A$"} {
		got := SanitizeColumnName("Amount " + sym)
		found := false
		for _, code := range codes {
			if strings.Contains(got, code) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("SanitizeColumnName(%q) = %q has no currency code", "Amount "+sym, got)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	if got := SanitizeLabel(2024); got != "_2024" {
		t.Errorf("SanitizeLabel(2024) = %q, want %q", got, "_2024")
	}
	if got := SanitizeLabel(nil); got != UnnamedColumn {
		t.Errorf("SanitizeLabel(nil) = %q, want %q", got, UnnamedColumn)
	}
}

func TestSanitizeHeaders_Collision(t *testing.T) {
	_, err := sanitizeHeaders([]string{"Total Spend", "total_spend"}, defaultVocabulary)
	if !errors.Is(err, ErrColumnNameCollision) {
		t.Fatalf("err = %v, want ErrColumnNameCollision", err)
	}
	var nce *NameCollisionError
	if !errors.As(err, &nce) {
		t.Fatalf("err = %T, want *NameCollisionError", err)
	}
	if nce.Name != "total_spend" {
		t.Errorf("Name = %q, want %q", nce.Name, "total_spend")
	}
}

func TestSanitizeHeaders_ComparisonSuffixCollision(t *testing.T) {
	_, err := sanitizeHeaders([]string{"amount", "Amount Clean"}, defaultVocabulary)
	if !errors.Is(err, ErrColumnNameCollision) {
		t.Fatalf("err = %v, want ErrColumnNameCollision", err)
	}
}
