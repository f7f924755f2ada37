package table

import "socMerge/internal/column"

// Normalize pads a raw file to at least width columns and reassigns every
// column to its positional letter, discarding the original header text as
// the column label. The returned HeaderMap covers exactly the columns that
// existed before padding.
func Normalize(headers []string, rows [][]Cell, width int) (*Table, HeaderMap) {
	total := len(headers)
	if width > total {
		total = width
	}

	letters := make([]string, total)
	for i := range letters {
		letters[i] = column.MustLetter(i)
	}

	hm := make(HeaderMap, len(headers))
	for i, h := range headers {
		hm[letters[i]] = h
	}

	t := NewTable(letters)
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t, hm
}
