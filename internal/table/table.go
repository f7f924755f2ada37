// Package table holds the positional-column table model and the
// normalize, filter, merge and header-resolution stages that operate on it.
package table

// Cell is a single table value. The zero value is a missing cell; a
// present cell has Valid set even when its text is empty.
type Cell struct {
	Value string
	Valid bool
}

// String returns a present cell holding s.
func String(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Missing reports whether the cell has no value.
func (c Cell) Missing() bool {
	return !c.Valid
}

// Table is a rectangular grid of cells whose columns are identified by
// spreadsheet letters. Every row holds exactly one cell per column.
type Table struct {
	letters []string
	index   map[string]int
	rows    [][]Cell
}

// NewTable creates an empty table with the given column letters.
func NewTable(letters []string) *Table {
	t := &Table{
		letters: append([]string(nil), letters...),
		index:   make(map[string]int, len(letters)),
	}
	for i, letter := range t.letters {
		t.index[letter] = i
	}
	return t
}

// AppendRow adds a row to the table. Short rows are padded with missing
// cells so the table stays rectangular.
func (t *Table) AppendRow(row []Cell) {
	padded := make([]Cell, len(t.letters))
	copy(padded, row)
	t.rows = append(t.rows, padded)
}

// Letters returns the column letters in order.
func (t *Table) Letters() []string {
	return append([]string(nil), t.letters...)
}

// ColumnIndex returns the position of a column letter in the table.
func (t *Table) ColumnIndex(letter string) (int, bool) {
	i, ok := t.index[letter]
	return i, ok
}

// Row returns the cells of row i.
func (t *Table) Row(i int) []Cell {
	return t.rows[i]
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.letters)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// Strings returns the table rows as plain strings. Missing cells come out
// as empty strings, indistinguishable from present empty ones; callers
// that need the distinction read cells directly.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		vals := make([]string, len(row))
		for j, c := range row {
			vals[j] = c.Value
		}
		out[i] = vals
	}
	return out
}

// HeaderMap records the original header text for the column letters that
// existed in a source file before padding.
type HeaderMap map[string]string

func allMissing(row []Cell) bool {
	for _, c := range row {
		if c.Valid {
			return false
		}
	}
	return true
}
