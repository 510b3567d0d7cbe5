package frame

import "sort"

// Table is a rows by named-columns value. A row shorter than Columns has
// missing trailing cells; extra cells beyond Columns are ignored.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// New creates a table with the given columns and rows.
func New(columns []string, rows ...[]any) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// FromRecords builds a table from records. Columns are the union of record
// keys, sorted.
func FromRecords(records []map[string]any) *Table {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range records {
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)

	t := &Table{Columns: cols, Rows: make([][]any, len(records))}
	for i, r := range records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = r[c]
		}
		t.Rows[i] = row
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Head returns a table sharing the first n rows.
func (t *Table) Head(n int) *Table {
	if t == nil {
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Records converts rows to column-keyed maps. Missing cells are nil.
func (t *Table) Records() []map[string]any {
	if t == nil {
		return nil
	}
	out := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j]
			} else {
				rec[col] = nil
			}
		}
		out[i] = rec
	}
	return out
}
