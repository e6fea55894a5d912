// Package assemble turns a normalized wide table into one record per
// person with its ordered funded-proposal line items.
package assemble

import (
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/excel"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"go.uber.org/zap"
)

// Entry is one unit of batch work: a person plus the line items decoded
// from that person's row, in slot order.
type Entry struct {
	Person model.Person
	Items  []model.LineItem
}

// Assembler groups wide rows into Entries
type Assembler struct {
	logger *zap.Logger
}

// NewAssembler creates a new Assembler
func NewAssembler(logger *zap.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// People materializes the batch from a validated table, in row order.
//
// Exclusion rules are silent: a row without NIP or Nama was never a
// valid record, and a person whose every slot is empty has nothing to
// attach. Neither produces a report entry. Malformed individual cells
// never fail the batch; only a structurally absent schema does, and the
// validator has rejected that before this point.
func (a *Assembler) People(table *excel.Table) ([]Entry, error) {
	maxN, err := excel.DetectMaxN(table)
	if err != nil {
		return nil, err
	}

	bankCol := table.BankColumn()
	emailCol := table.EmailColumn()

	var entries []Entry
	skippedIdentity := 0
	skippedEmpty := 0

	for row := 0; row < table.RowCount(); row++ {
		nip := table.Cell(row, "NIP")
		nama := table.Cell(row, "Nama")
		if nip == "" || nama == "" {
			skippedIdentity++
			continue
		}

		items := a.decodeSlots(table, row, maxN)
		if len(items) == 0 {
			skippedEmpty++
			continue
		}

		bank := "-"
		if bankCol != "" {
			if b := table.Cell(row, bankCol); b != "" {
				bank = b
			}
		}

		email := ""
		if emailCol != "" {
			email = excel.NormalizeEmail(table.Cell(row, emailCol))
		}

		entries = append(entries, Entry{
			Person: model.Person{
				Nama:     nama,
				NIP:      nip,
				Fakultas: table.Cell(row, "Fakultas"),
				Rekening: table.Cell(row, "Norek"),
				Bank:     bank,
				Email:    email,
			},
			Items: items,
		})
	}

	a.logger.Info("People assembled",
		zap.Int("valid", len(entries)),
		zap.Int("skipped_identity", skippedIdentity),
		zap.Int("skipped_no_items", skippedEmpty),
		zap.Int("max_n", maxN))

	return entries, nil
}

// decodeSlots scans slots 1..maxN of one row. A slot contributes a line
// item only when its proposal-number cell is non-empty after trimming;
// schema gaps (NoProp2 missing while NoProp3 exists) read as empty and
// are skipped without error.
func (a *Assembler) decodeSlots(table *excel.Table, row, maxN int) []model.LineItem {
	var items []model.LineItem
	for i := 1; i <= maxN; i++ {
		noPropCol, judulCol, skemaCol, danaCol := excel.SlotColumns(i)

		noProp := table.Cell(row, noPropCol)
		if noProp == "" {
			continue
		}

		items = append(items, model.LineItem{
			NoProp: noProp,
			Judul:  table.Cell(row, judulCol),
			Skema:  table.Cell(row, skemaCol),
			Dana:   FormatRupiah(table.Cell(row, danaCol)),
		})
	}
	return items
}
