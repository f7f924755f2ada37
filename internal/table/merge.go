package table

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ErrUnorderable reports a sort column whose present values mix numeric and
// non-numeric text, so no single comparison can order them.
var ErrUnorderable = errors.New("sort column values are not orderable")

// Merge concatenates the transformed per-file tables into one. The merged
// column set is the union of the input columns in first-appearance order.
// Fully-missing rows are dropped, the sort column is added if every input
// lost it, rows are stable-sorted by it with missing values last, columns
// that are missing in every row are dropped apart from the protected filter
// and sort columns, and the remaining missing cells become empty strings.
func Merge(tables []*Table, cfg TransformConfig) (*Table, error) {
	var letters []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, letter := range t.letters {
			if !seen[letter] {
				seen[letter] = true
				letters = append(letters, letter)
			}
		}
	}
	if !seen[cfg.SortColumn] {
		letters = append(letters, cfg.SortColumn)
	}

	merged := NewTable(letters)
	for _, t := range tables {
		for _, row := range t.rows {
			cells := make([]Cell, len(letters))
			for j, letter := range letters {
				if src, ok := t.index[letter]; ok {
					cells[j] = row[src]
				}
			}
			if allMissing(cells) {
				continue
			}
			merged.rows = append(merged.rows, cells)
		}
	}

	sortCol := merged.index[cfg.SortColumn]
	if err := sortRows(merged.rows, sortCol); err != nil {
		return nil, err
	}

	merged.dropEmptyColumns(cfg.protectedColumns())
	merged.fillMissing()
	return merged, nil
}

// sortRows orders rows ascending by the cell in column col, missing values
// last, equal keys keeping their relative order. When every present value
// parses as a number the comparison is numeric, otherwise bytewise on the
// strings; a mix of the two cannot be ordered.
func sortRows(rows [][]Cell, col int) error {
	numeric, text := 0, 0
	for _, row := range rows {
		c := row[col]
		if !c.Valid {
			continue
		}
		if f, err := strconv.ParseFloat(c.Value, 64); err == nil && !math.IsNaN(f) {
			numeric++
		} else {
			text++
		}
	}
	if numeric > 0 && text > 0 {
		return fmt.Errorf("%w: %d numeric and %d non-numeric values", ErrUnorderable, numeric, text)
	}

	less := func(a, b Cell) bool {
		switch {
		case !a.Valid:
			return false
		case !b.Valid:
			return true
		case numeric > 0:
			fa, _ := strconv.ParseFloat(a.Value, 64)
			fb, _ := strconv.ParseFloat(b.Value, 64)
			return fa < fb
		default:
			return a.Value < b.Value
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i][col], rows[j][col])
	})
	return nil
}

func (t *Table) dropEmptyColumns(keep map[string]bool) {
	empty := make([]bool, len(t.letters))
	for i := range empty {
		empty[i] = true
	}
	for _, row := range t.rows {
		for i, c := range row {
			if c.Valid {
				empty[i] = false
			}
		}
	}

	var letters []string
	var keepIdx []int
	for i, letter := range t.letters {
		if !empty[i] || keep[letter] {
			letters = append(letters, letter)
			keepIdx = append(keepIdx, i)
		}
	}
	if len(letters) == len(t.letters) {
		return
	}

	for r, row := range t.rows {
		cells := make([]Cell, len(keepIdx))
		for j, i := range keepIdx {
			cells[j] = row[i]
		}
		t.rows[r] = cells
	}
	t.letters = letters
	t.index = make(map[string]int, len(letters))
	for i, letter := range letters {
		t.index[letter] = i
	}
}

func (t *Table) fillMissing() {
	for _, row := range t.rows {
		for i, c := range row {
			if !c.Valid {
				row[i] = String("")
			}
		}
	}
}
