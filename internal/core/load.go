package core

// load.go copies a load-ready table into PostgreSQL.
//
// The target table is created from the type report and filled with COPY in a
// single transaction, so a failed load leaves nothing behind.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var (
	// ErrLoadDisabled is returned when no database is configured.
	ErrLoadDisabled = errors.New("database loading is disabled")

	// ErrInvalidTableName is returned for an empty target table name.
	ErrInvalidTableName = errors.New("invalid table name")
)

// TxBeginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LoadResult describes a completed load.
type LoadResult struct {
	Schema  string `json:"schema"`
	Table   string `json:"table"`
	Columns int    `json:"columns"`
	Rows    int64  `json:"rows"`
}

// PgColumnType returns the PostgreSQL column type for an inferred tag.
func PgColumnType(tag TypeTag) string {
	switch tag {
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "bigint"
	case TypeFloat:
		return "double precision"
	case TypeDatetime:
		return "timestamptz"
	default:
		return "text"
	}
}

// CreateTableSQL builds the DDL for a load-ready table.
func CreateTableSQL(schema, table string, types TypeReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s.%s (", quoteIdentifier(schema), quoteIdentifier(table))
	for i, ct := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", quoteIdentifier(ct.Name), PgColumnType(ct.Type))
	}
	b.WriteString(")")
	return b.String()
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// LoadTable creates schema.table and copies res.LoadReady into it. The table
// name is sanitized like a column name.
func LoadTable(ctx context.Context, db TxBeginner, schema, table string, res *Result) (*LoadResult, error) {
	if db == nil {
		return nil, ErrLoadDisabled
	}
	if strings.TrimSpace(table) == "" {
		return nil, ErrInvalidTableName
	}
	table = SanitizeColumnName(table)

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, CreateTableSQL(schema, table, res.Types)); err != nil {
		return nil, fmt.Errorf("create table %s.%s: %w", schema, table, err)
	}

	var copied int64
	if len(res.Types) > 0 {
		columns := make([]string, len(res.Types))
		for i, ct := range res.Types {
			columns[i] = ct.Name
		}
		copied, err = tx.CopyFrom(ctx, pgx.Identifier{schema, table}, columns, pgx.CopyFromRows(copyRows(res.LoadReady, res.Types)))
		if err != nil {
			return nil, fmt.Errorf("copy into %s.%s: %w", schema, table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &LoadResult{Schema: schema, Table: table, Columns: len(res.Types), Rows: copied}, nil
}

// copyRows converts the load-ready table to row-major pgtype values.
func copyRows(t *Table, types TypeReport) [][]any {
	rows := make([][]any, t.NumRows())
	for i := range rows {
		row := make([]any, len(t.Columns))
		for j, col := range t.Columns {
			row[j] = ToPgValue(col.Cells[i], types[j].Type)
		}
		rows[i] = row
	}
	return rows
}

// ToPgValue converts a coerced cell to the pgtype value for its column type.
// Missing cells become NULL.
func ToPgValue(c Cell, tag TypeTag) any {
	switch tag {
	case TypeBoolean:
		return ToPgBool(c)
	case TypeInteger:
		return ToPgInt8(c)
	case TypeFloat:
		return ToPgFloat8(c)
	case TypeDatetime:
		return ToPgTimestamptz(c)
	default:
		return ToPgText(c)
	}
}

// ToPgText converts a cell to pgtype.Text using its string form.
func ToPgText(c Cell) pgtype.Text {
	if c.IsMissing() {
		return pgtype.Text{}
	}
	return pgtype.Text{String: c.String(), Valid: true}
}

// ToPgBool converts a boolean cell to pgtype.Bool.
func ToPgBool(c Cell) pgtype.Bool {
	if c.Kind != KindBool {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: c.Bool, Valid: true}
}

// ToPgInt8 converts an integral number cell to pgtype.Int8. Values outside
// the int64 range are NULL.
func ToPgInt8(c Cell) pgtype.Int8 {
	n, ok := c.Int64()
	if !ok {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: n, Valid: true}
}

// ToPgFloat8 converts a number cell to pgtype.Float8.
func ToPgFloat8(c Cell) pgtype.Float8 {
	if c.Kind != KindNumber {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: c.Num, Valid: true}
}

// ToPgTimestamptz converts a time cell to pgtype.Timestamptz.
func ToPgTimestamptz(c Cell) pgtype.Timestamptz {
	if c.Kind != KindTime {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: c.Time, Valid: true}
}
