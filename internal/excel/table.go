package excel

import "strings"

// Table is a normalized sheet: trimmed string headers, every cell a
// string. Identity columns are coerced to trimmed strings at load time
// so NIP/Norek never suffer numeric round-tripping.
type Table struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

func newTable(headers []string, rows [][]string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	return &Table{headers: headers, index: index, rows: rows}
}

// Headers returns the trimmed column headers in sheet order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int {
	return len(t.rows)
}

// HasColumn reports whether a column with the exact header exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the trimmed value at (row, column header), or "" when the
// column does not exist or the row is ragged short. Missing values are
// always the empty string; there is no other sentinel.
func (t *Table) Cell(row int, column string) string {
	col, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	r := t.rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// EmailColumn returns the header actually used for email addresses,
// preferring "Email" over "email", or "" when neither exists.
func (t *Table) EmailColumn() string {
	for _, name := range []string{"Email", "email"} {
		if t.HasColumn(name) {
			return name
		}
	}
	return ""
}

// BankColumn returns the header used for the bank name, or "".
func (t *Table) BankColumn() string {
	for _, name := range []string{"Nama Bank", "nama_bank"} {
		if t.HasColumn(name) {
			return name
		}
	}
	return ""
}

// ApplyEmailMap backfills email addresses by NIP. Cells that already
// hold a value are never overwritten; the mapping only fills gaps. When
// the table has no email column at all, an "Email" column is appended.
func (t *Table) ApplyEmailMap(emailMap map[string]string) {
	col := t.EmailColumn()
	if col == "" {
		col = "Email"
		t.headers = append(t.headers, col)
		t.index[col] = len(t.headers) - 1
	}
	emailIdx := t.index[col]

	for i := range t.rows {
		for len(t.rows[i]) <= emailIdx {
			t.rows[i] = append(t.rows[i], "")
		}
		if strings.TrimSpace(t.rows[i][emailIdx]) != "" {
			continue
		}
		nip := t.Cell(i, "NIP")
		if nip == "" {
			continue
		}
		if em, ok := emailMap[nip]; ok {
			t.rows[i][emailIdx] = em
		}
	}
}
