package document

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/fumiama/go-docx"
)

// tableWidthTwips is the usable width of an A4 page with default margins.
const tableWidthTwips = 9000

// RenderDocx serializes a Statement into docx bytes. This is the only
// place that touches the OOXML library; the Statement itself stays a
// plain description.
func RenderDocx(st *Statement) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	for _, block := range st.Blocks {
		switch b := block.(type) {
		case Paragraph:
			renderParagraph(w.AddParagraph(), b)
		case PageBreak:
			w.AddParagraph().AddPageBreaks()
		case Table:
			if err := renderTable(w, b); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown block type %T", block)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize docx: %w", err)
	}
	return buf.Bytes(), nil
}

func renderParagraph(para *docx.Paragraph, p Paragraph) {
	if j := justification(p.Align); j != "" {
		para.Justification(j)
	}
	if p.Text == "" {
		return
	}

	run := para.AddText(p.Text)
	if p.Size > 0 {
		// docx run sizes are half-points
		run.Size(strconv.Itoa(p.Size * 2))
	}
	if p.Bold {
		run.Bold()
	}
	if p.Color != "" {
		run.Color(p.Color)
	}
}

func renderTable(w *docx.Docx, t Table) error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("table has no rows")
	}
	cols := len(t.Rows[0])
	for _, row := range t.Rows {
		if len(row) != cols {
			return fmt.Errorf("ragged table: expected %d cells, got %d", cols, len(row))
		}
	}

	tbl := w.AddTable(len(t.Rows), cols, tableWidthTwips, nil)
	for i, row := range t.Rows {
		for j, cell := range row {
			para := tbl.TableRows[i].TableCells[j].AddParagraph()
			if jst := justification(cell.Align); jst != "" {
				para.Justification(jst)
			}
			if cell.Text == "" {
				continue
			}
			run := para.AddText(cell.Text)
			if cell.Size > 0 {
				run.Size(strconv.Itoa(cell.Size * 2))
			}
			if cell.Bold {
				run.Bold()
			}
		}
	}
	return nil
}

func justification(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "both"
	default:
		return ""
	}
}
