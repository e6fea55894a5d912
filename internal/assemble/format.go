package assemble

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders a raw amount cell as a localized integer string:
// "1500000" becomes "1.500.000". Missing or non-numeric values render
// as "" so the attachment table shows a blank instead of garbage.
func FormatRupiah(raw string) string {
	if raw == "" {
		return ""
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	return rupiahPrinter.Sprintf("%d", int64(v))
}
