package domain

// Table is a raw worksheet as read from a source: rows of cells holding
// strings, numbers, bools or nil.
type Table [][]any

// StringTable wraps a text-only worksheet, as returned by CSV and Excel
// readers.
func StringTable(rows [][]string) Table {
	t := make(Table, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		t[i] = cells
	}
	return t
}
