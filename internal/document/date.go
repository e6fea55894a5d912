package document

import (
	"fmt"
	"time"
)

// Indonesian month names for the dated closing block. Fixed domain
// constants, same as the clause texts.
var bulanIndonesia = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatTanggal renders a date in the long Indonesian administrative
// form, e.g. "05 Maret 2025".
func FormatTanggal(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), bulanIndonesia[t.Month()-1], t.Year())
}
