// Package document builds the SPTJM statement as an immutable
// description of blocks, then renders that description to docx bytes.
// Builder and renderer are separate so the data-to-layout step stays a
// pure transformation with no serialization concerns mixed in.
package document

// Align is a paragraph alignment
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// Block is one element of the statement body, in document order.
type Block interface {
	isBlock()
}

// Paragraph is a single styled line of text
type Paragraph struct {
	Text string
	// Size is the font size in points; 0 means the body default.
	Size  int
	Bold  bool
	Align Align
	// Color is an RRGGBB hex string; empty means automatic.
	Color string
}

// PageBreak separates the declaration page from the attachment page
type PageBreak struct{}

// Cell is one styled table cell
type Cell struct {
	Text  string
	Size  int
	Bold  bool
	Align Align
}

// Table is a fixed-shape grid of cells
type Table struct {
	Rows [][]Cell
}

func (Paragraph) isBlock() {}
func (PageBreak) isBlock() {}
func (Table) isBlock()     {}

// Statement is the complete two-page SPTJM document description.
// It is deterministic for identical inputs and never mutated after
// BuildStatement returns it.
type Statement struct {
	Blocks []Block
}
