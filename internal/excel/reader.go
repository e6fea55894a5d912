// Package excel loads the SPTJM source workbooks and normalizes them
// into string tables: trimmed headers, identity fields coerced to
// strings, missing values collapsed to "".
package excel

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// identityColumns are identifier fields, never numbers. Their values
// are trimmed at load time.
var identityColumns = []string{"NIP", "Norek"}

// Reader loads xlsx workbooks from byte streams
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new workbook reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// SheetNames lists the sheets of a workbook without loading any rows.
func (r *Reader) SheetNames(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSpreadsheet, err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// ReadSheet loads one sheet into a normalized Table. The first row is
// the header row; headers are trimmed to strings.
func (r *Reader) ReadSheet(data []byte, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSpreadsheet, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	// Raw values, not the display text: a number format on an amount
	// cell would otherwise inject grouping separators ("1,500,000")
	// that the numeric parse downstream cannot accept.
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := newTable(headers, raw[1:])
	for _, col := range identityColumns {
		table.coerceString(col)
	}

	r.logger.Debug("Sheet loaded",
		zap.String("sheet", sheet),
		zap.Int("rows", table.RowCount()),
		zap.Int("cols", len(headers)))

	return table, nil
}

// coerceString trims every cell of the named column in place.
func (t *Table) coerceString(column string) {
	col, ok := t.index[column]
	if !ok {
		return
	}
	for i := range t.rows {
		if col < len(t.rows[i]) {
			t.rows[i][col] = strings.TrimSpace(t.rows[i][col])
		}
	}
}

// NormalizeEmail returns the trimmed address when it has the strict
// local@domain.tld shape, otherwise "". net/mail is deliberately not
// used here: it accepts addresses without a dotted domain.
func NormalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !emailRe.MatchString(s) {
		return ""
	}
	return s
}
