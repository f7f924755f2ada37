package table

import (
	"fmt"

	"socMerge/internal/column"
)

// FilterRule keeps only rows whose cell in Column equals Value exactly.
// Missing cells never match.
type FilterRule struct {
	Column string
	Value  string
}

// LetterRange is an inclusive span of column letters.
type LetterRange struct {
	Start string
	End   string
}

// TransformConfig is the fixed rule set for one run: the row filters (all
// must match), the sort column, and the column ranges to drop. It is built
// once from configuration and passed into every stage.
type TransformConfig struct {
	Filters    []FilterRule
	SortColumn string
	DropRanges []LetterRange
}

// RequiredWidth returns 1 + the highest column index any rule refers to.
// Tables are padded to at least this width before filtering, so every
// configured column exists.
func (c TransformConfig) RequiredWidth() (int, error) {
	maxIdx := -1
	track := func(role, letter string) error {
		idx, err := column.LetterToIndex(letter)
		if err != nil {
			return fmt.Errorf("%s %q: %w", role, letter, err)
		}
		if idx > maxIdx {
			maxIdx = idx
		}
		return nil
	}

	for _, f := range c.Filters {
		if err := track("filter column", f.Column); err != nil {
			return 0, err
		}
	}
	if err := track("sort column", c.SortColumn); err != nil {
		return 0, err
	}
	for _, r := range c.DropRanges {
		if err := track("drop range start", r.Start); err != nil {
			return 0, err
		}
		if err := track("drop range end", r.End); err != nil {
			return 0, err
		}
	}
	return maxIdx + 1, nil
}

// Validate resolves every configured letter through the codec and rejects
// ranges whose start lies after their end.
func (c TransformConfig) Validate() error {
	if _, err := c.RequiredWidth(); err != nil {
		return err
	}
	for _, r := range c.DropRanges {
		start, _ := column.LetterToIndex(r.Start)
		end, _ := column.LetterToIndex(r.End)
		if start > end {
			return fmt.Errorf("drop range %s-%s: start after end", r.Start, r.End)
		}
	}
	return nil
}

// protectedColumns returns the letters that stay in the merged output even
// when entirely missing: every filter column plus the sort column.
func (c TransformConfig) protectedColumns() map[string]bool {
	keep := make(map[string]bool, len(c.Filters)+1)
	for _, f := range c.Filters {
		keep[f.Column] = true
	}
	keep[c.SortColumn] = true
	return keep
}

// Transform keeps the rows matching every filter rule and then removes the
// configured column ranges. A row-empty result is valid output.
func Transform(t *Table, cfg TransformConfig) (*Table, error) {
	filtered := filterRows(t, cfg.Filters)
	return dropRanges(filtered, cfg.DropRanges)
}

func filterRows(t *Table, filters []FilterRule) *Table {
	out := NewTable(t.letters)

	// A filter on a column the table lacks matches nothing.
	cols := make([]int, len(filters))
	for i, f := range filters {
		idx, ok := t.index[f.Column]
		if !ok {
			return out
		}
		cols[i] = idx
	}

	for _, row := range t.rows {
		match := true
		for i, f := range filters {
			c := row[cols[i]]
			if !c.Valid || c.Value != f.Value {
				match = false
				break
			}
		}
		if match {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

func dropRanges(t *Table, ranges []LetterRange) (*Table, error) {
	if len(ranges) == 0 {
		return t, nil
	}

	drop := make(map[string]bool)
	for _, r := range ranges {
		start, err := column.LetterToIndex(r.Start)
		if err != nil {
			return nil, fmt.Errorf("drop range start %q: %w", r.Start, err)
		}
		end, err := column.LetterToIndex(r.End)
		if err != nil {
			return nil, fmt.Errorf("drop range end %q: %w", r.End, err)
		}
		for i := start; i <= end; i++ {
			drop[column.MustLetter(i)] = true
		}
	}

	var keep []string
	var keepIdx []int
	for i, letter := range t.letters {
		if !drop[letter] {
			keep = append(keep, letter)
			keepIdx = append(keepIdx, i)
		}
	}
	if len(keep) == len(t.letters) {
		return t, nil
	}

	out := NewTable(keep)
	for _, row := range t.rows {
		cells := make([]Cell, len(keepIdx))
		for j, i := range keepIdx {
			cells[j] = row[i]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}
