package table

// ResolveHeaders maps the table's column letters back to original header
// names for output. Letters absent from the map (padded columns, or a sort
// column synthesized during merge) keep the letter itself as their header.
func ResolveHeaders(t *Table, hm HeaderMap) []string {
	headers := make([]string, len(t.letters))
	for i, letter := range t.letters {
		if name, ok := hm[letter]; ok {
			headers[i] = name
		} else {
			headers[i] = letter
		}
	}
	return headers
}
