package table

import (
	"fmt"
	"strings"

	"annexval/domain/core"
)

// Table is an ordered, column-major tabular dataset. Column order and row
// order are stable; cells are Values with explicit missing markers. A Table
// has exactly one owner at a time (the session) and is never shared between
// goroutines.
type Table struct {
	columns []string
	cells   map[string][]Value
	numRows int
}

// New creates an empty table with the given column order. Column names must
// be non-blank and unique.
func New(columns []string) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	cols := make([]string, 0, len(columns))
	for _, name := range columns {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("column name cannot be blank")
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", core.ErrDuplicateColumn, name)
		}
		seen[name] = true
		cols = append(cols, name)
	}

	cells := make(map[string][]Value, len(cols))
	for _, name := range cols {
		cells[name] = nil
	}
	return &Table{columns: cols, cells: cells}, nil
}

// FromStringRows builds a table from raw header and string rows, the shape
// spreadsheet readers produce. Cells are trimmed; blank cells become missing
// values. Short rows are padded with missing values, stray cells beyond the
// header width are dropped.
func FromStringRows(headers []string, rows [][]string) (*Table, error) {
	t, err := New(headers)
	if err != nil {
		return nil, err
	}

	width := len(t.columns)
	for _, row := range rows {
		values := make([]Value, width)
		for i := 0; i < width; i++ {
			if i < len(row) {
				values[i] = NewStringValue(strings.TrimSpace(row[i]))
			} else {
				values[i] = NewMissingValue()
			}
		}
		t.appendRow(values)
	}
	return t, nil
}

func (t *Table) appendRow(values []Value) {
	for i, name := range t.columns {
		t.cells[name] = append(t.cells[name], values[i])
	}
	t.numRows++
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return t.numRows
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// Column returns a copy of the named column's values in row order
func (t *Table) Column(name string) ([]Value, error) {
	col, ok := t.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrColumnNotFound, name)
	}
	out := make([]Value, len(col))
	copy(out, col)
	return out, nil
}

// SetColumn atomically replaces the named column. The replacement must
// cover every row; on any error the table is left untouched.
func (t *Table) SetColumn(name string, values []Value) error {
	if _, ok := t.cells[name]; !ok {
		return fmt.Errorf("%w: %q", core.ErrColumnNotFound, name)
	}
	if len(values) != t.numRows {
		return fmt.Errorf("column %q: expected %d values, got %d", name, t.numRows, len(values))
	}
	col := make([]Value, len(values))
	copy(col, values)
	t.cells[name] = col
	return nil
}

// Row returns the values of row i in column order
func (t *Table) Row(i int) ([]Value, error) {
	if i < 0 || i >= t.numRows {
		return nil, fmt.Errorf("row index %d out of range [0,%d)", i, t.numRows)
	}
	out := make([]Value, len(t.columns))
	for c, name := range t.columns {
		out[c] = t.cells[name][i]
	}
	return out, nil
}

// Clone returns a deep copy with independent cell storage
func (t *Table) Clone() *Table {
	cells := make(map[string][]Value, len(t.columns))
	for _, name := range t.columns {
		col := make([]Value, len(t.cells[name]))
		copy(col, t.cells[name])
		cells[name] = col
	}
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	return &Table{columns: columns, cells: cells, numRows: t.numRows}
}

// MissingCount returns how many cells of the named column are missing
func (t *Table) MissingCount(name string) (int, error) {
	col, ok := t.cells[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", core.ErrColumnNotFound, name)
	}
	n := 0
	for _, v := range col {
		if v.IsMissing {
			n++
		}
	}
	return n, nil
}
