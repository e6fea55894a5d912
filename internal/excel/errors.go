package excel

import "errors"

// Load and schema errors. All of these are fatal to a batch: they are
// surfaced before any document generation starts.
var (
	ErrNotSpreadsheet = errors.New("not a valid xlsx workbook")
	ErrSheetNotFound  = errors.New("sheet not found in workbook")
	ErrEmptySheet     = errors.New("sheet has no header row")
	ErrNoItemGroups   = errors.New("no NoProp1/NoProp2/... columns found")
	ErrMappingColumns = errors.New("email mapping sheet must have NIP and Email columns")
)
