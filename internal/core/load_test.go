package core

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestCreateTableSQL(t *testing.T) {
	types := TypeReport{
		{"id", TypeInteger},
		{"amount", TypeFloat},
		{"active", TypeBoolean},
		{"signed_up", TypeDatetime},
		{"name", TypeString},
		{"notes", TypeEmpty},
	}
	got := CreateTableSQL("public", "customers", types)
	want := `CREATE TABLE "public"."customers" ("id" bigint, "amount" double precision, "active" boolean, ` +
		`"signed_up" timestamptz, "name" text, "notes" text)`
	if got != want {
		t.Errorf("CreateTableSQL() =\n%s\nwant\n%s", got, want)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := quoteIdentifier(`we"ird`); got != `"we""ird"` {
		t.Errorf("quoteIdentifier() = %s", got)
	}
}

func TestToPgValue(t *testing.T) {
	ts := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cell Cell
		tag  TypeTag
		want any
	}{
		{"bool", Bool(true), TypeBoolean, pgtype.Bool{Bool: true, Valid: true}},
		{"missing bool", Missing(), TypeBoolean, pgtype.Bool{}},
		{"integer", Float(42), TypeInteger, pgtype.Int8{Int64: 42, Valid: true}},
		{"integer overflow", Float(math.MaxFloat64), TypeInteger, pgtype.Int8{}},
		{"integer past 2^53", Number("9007199254740993", 9007199254740992), TypeInteger, pgtype.Int8{Int64: 9007199254740993, Valid: true}},
		{"float", Float(-100.5), TypeFloat, pgtype.Float8{Float64: -100.5, Valid: true}},
		{"time", Time(ts), TypeDatetime, pgtype.Timestamptz{Time: ts, Valid: true}},
		{"text", Text("hello"), TypeString, pgtype.Text{String: "hello", Valid: true}},
		{"missing text", Missing(), TypeEmpty, pgtype.Text{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPgValue(tt.cell, tt.tag); got != tt.want {
				t.Errorf("ToPgValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCopyRows(t *testing.T) {
	tbl, _ := NewTable([]string{"n", "s"}, [][]Cell{{Float(1), Missing()}, {Text("a"), Text("b")}})
	rows := copyRows(tbl, TypeReport{{"n", TypeInteger}, {"s", TypeString}})

	if len(rows) != 2 || len(rows[0]) != 2 {
		t.Fatalf("rows shape = %d x %d, want 2 x 2", len(rows), len(rows[0]))
	}
	if rows[1][0] != (pgtype.Int8{}) {
		t.Errorf("rows[1][0] = %#v, want NULL", rows[1][0])
	}
	if rows[1][1] != (pgtype.Text{String: "b", Valid: true}) {
		t.Errorf("rows[1][1] = %#v", rows[1][1])
	}
}

func TestLoadTable_Disabled(t *testing.T) {
	if _, err := LoadTable(context.Background(), nil, "public", "t", &Result{}); !errors.Is(err, ErrLoadDisabled) {
		t.Errorf("err = %v, want ErrLoadDisabled", err)
	}
}
