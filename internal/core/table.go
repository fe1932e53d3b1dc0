package core

import (
	"errors"
	"fmt"
)

// Column is a named sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an ordered set of equally long columns. RowIDs holds the stable
// original identifier of each row and survives every transformation.
type Table struct {
	Columns []Column
	RowIDs  []int
}

// NewTable builds a table from column-major data with row IDs 0..n-1.
func NewTable(names []string, columns [][]Cell) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrInvalidTable, len(names), len(columns))
	}
	t := &Table{Columns: make([]Column, len(names))}
	for i, name := range names {
		t.Columns[i] = Column{Name: name, Cells: columns[i]}
	}
	n := 0
	if len(columns) > 0 {
		n = len(columns[0])
	}
	t.RowIDs = sequentialIDs(n)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromRows builds a table from a header and row-major records. Short rows
// are padded with missing cells; long rows are an error.
func FromRows(header []string, rows [][]Cell) (*Table, error) {
	t := &Table{Columns: make([]Column, len(header)), RowIDs: sequentialIDs(len(rows))}
	for j, name := range header {
		t.Columns[j] = Column{Name: name, Cells: make([]Cell, len(rows))}
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d columns", ErrInvalidTable, i, len(row), len(header))
		}
		for j, c := range row {
			t.Columns[j].Cells[i] = c
		}
	}
	return t, nil
}

func sequentialIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Validate checks the table shape: every column has one cell per row ID and
// row IDs are unique.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	n := len(t.RowIDs)
	for _, col := range t.Columns {
		if len(col.Cells) != n {
			return fmt.Errorf("%w: column %q has %d cells, want %d", ErrInvalidTable, col.Name, len(col.Cells), n)
		}
	}
	seen := make(map[int]struct{}, n)
	for _, id := range t.RowIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate row id %d", ErrInvalidTable, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.RowIDs) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the first column called name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Cells[i]
	}
	return row
}

// Head returns a table holding at most the first n rows. Cells are shared.
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	if n < 0 {
		n = 0
	}
	h := &Table{Columns: make([]Column, len(t.Columns)), RowIDs: t.RowIDs[:n]}
	for j, c := range t.Columns {
		h.Columns[j] = Column{Name: c.Name, Cells: c.Cells[:n]}
	}
	return h
}

// dropEmpty removes columns whose cells are all missing, then rows whose
// remaining cells are all missing. Row IDs of kept rows are preserved.
func (t *Table) dropEmpty() (out *Table, droppedRows, droppedCols int) {
	out = &Table{}
	for _, c := range t.Columns {
		if !allMissing(c.Cells) {
			out.Columns = append(out.Columns, c)
		}
	}
	droppedCols = len(t.Columns) - len(out.Columns)

	keep := make([]int, 0, t.NumRows())
	for i := range t.RowIDs {
		for _, c := range out.Columns {
			if !c.Cells[i].IsMissing() {
				keep = append(keep, i)
				break
			}
		}
	}
	droppedRows = t.NumRows() - len(keep)

	out.RowIDs = make([]int, len(keep))
	for k, i := range keep {
		out.RowIDs[k] = t.RowIDs[i]
	}
	for j, c := range out.Columns {
		cells := make([]Cell, len(keep))
		for k, i := range keep {
			cells[k] = c.Cells[i]
		}
		out.Columns[j] = Column{Name: c.Name, Cells: cells}
	}
	return out, droppedRows, droppedCols
}

func allMissing(cells []Cell) bool {
	for _, c := range cells {
		if !c.IsMissing() {
			return false
		}
	}
	return true
}

// Sentinel errors for table cleaning.
var (
	ErrInvalidTable        = errors.New("invalid table")
	ErrInvalidThreshold    = errors.New("threshold must be within [0, 1]")
	ErrColumnNameCollision = errors.New("column name collision")
)

// NameCollisionError reports two source labels that sanitize to clashing names.
type NameCollisionError struct {
	First, Second string
	Name          string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("column name collision: %q and %q both map to %q", e.First, e.Second, e.Name)
}

func (e *NameCollisionError) Unwrap() error { return ErrColumnNameCollision }
