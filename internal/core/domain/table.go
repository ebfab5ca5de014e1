package domain

// FlatRow maps a field name to its trimmed text value.
type FlatRow map[string]string

// Table is a set of rows with the sorted union of their field names.
type Table struct {
	Header []string
	Rows   []FlatRow
}

// Record returns row i aligned to the header, missing fields empty.
func (t Table) Record(i int) []string {
	rec := make([]string, len(t.Header))
	for j, field := range t.Header {
		rec[j] = t.Rows[i][field]
	}
	return rec
}
