// Package report accumulates per-item outcome rows and exports them as
// delimited text. Rows keep insertion order; the operator correlates
// report line N with input record N.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
)

var csvHeader = []string{"name", "id_number", "email", "status", "message"}

// Report is an ordered collection of result rows
type Report struct {
	rows []model.ResultRow
}

// New creates an empty report
func New() *Report {
	return &Report{}
}

// Add appends one outcome row.
func (r *Report) Add(row model.ResultRow) {
	r.rows = append(r.rows, row)
}

// Rows returns the accumulated rows in insertion order.
func (r *Report) Rows() []model.ResultRow {
	out := make([]model.ResultRow, len(r.rows))
	copy(out, r.rows)
	return out
}

// Len returns the number of rows.
func (r *Report) Len() int {
	return len(r.rows)
}

// CountStatus returns how many rows carry the given status.
func (r *Report) CountStatus(status string) int {
	n := 0
	for _, row := range r.rows {
		if row.Status == status {
			n++
		}
	}
	return n
}

// WriteCSV exports the report with a fixed header row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range r.rows {
		record := []string{row.Nama, row.NIP, row.Email, row.Status, row.Message}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
