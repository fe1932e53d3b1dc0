package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/sheetclean/internal/core"
)

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	if err := os.WriteFile(in, []byte("Order ID,Amount ($)\n1,\"$5.50\"\n2,oops\n3,7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	if err := run([]string{"-in", in, "-out", out, "-threshold", "0.5"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{"orders-load-ready.jsonl", "orders-comparison.csv", "orders-quarantine.csv", "orders-types.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	types, err := os.ReadFile(filepath.Join(out, "orders-types.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(types), `"amount_usd": "FLOAT"`) {
		t.Errorf("types.json = %s", types)
	}

	quarantine, err := os.ReadFile(filepath.Join(out, "orders-quarantine.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(quarantine), "Value 'oops'") {
		t.Errorf("quarantine.csv = %s", quarantine)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")
	os.WriteFile(pdf, []byte("x"), 0o644)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input flag", nil, "no file provided"},
		{"unsupported file", []string{"-in", pdf}, "unsupported file type"},
		{"missing file", []string{"-in", filepath.Join(dir, "nope.csv")}, "no such file"},
		{"bad threshold", []string{"-in", pdf, "-threshold", "x"}, "invalid value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRunRejectsNegativeThreshold(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(in, []byte("n\n1\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run([]string{"-in", in, "-out", dir, "-threshold", "-0.5"})
	if !errors.Is(err, core.ErrInvalidThreshold) {
		t.Errorf("err = %v, want ErrInvalidThreshold", err)
	}
}
