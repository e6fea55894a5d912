package model

// Person is one statement recipient assembled from a single sheet row.
// NIP and Norek are identifiers, never numbers; precision loss on the
// ingestion side would corrupt them silently.
type Person struct {
	Nama     string
	NIP      string
	Fakultas string
	Rekening string
	Bank     string
	// Email holds the recipient address only when the source cell passed
	// strict validation; empty means "no usable address".
	Email string
}

// LineItem is one funded proposal attached to a Person. Dana is already
// formatted for display ("1.500.000"); an empty string means the source
// amount was missing or not numeric.
type LineItem struct {
	NoProp string
	Judul  string
	Skema  string
	Dana   string
}
