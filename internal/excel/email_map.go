package excel

import (
	"strings"

	"go.uber.org/zap"
)

// BuildEmailMap builds the NIP→email fallback table from a secondary
// mapping sheet. Header match is case-insensitive. Rows with an empty
// NIP or an address failing strict validation are dropped.
func BuildEmailMap(t *Table, logger *zap.Logger) (map[string]string, error) {
	var nipCol, emailCol string
	for _, h := range t.Headers() {
		switch strings.ToLower(h) {
		case "nip":
			if nipCol == "" {
				nipCol = h
			}
		case "email":
			if emailCol == "" {
				emailCol = h
			}
		}
	}
	if nipCol == "" || emailCol == "" {
		return nil, ErrMappingColumns
	}

	out := make(map[string]string)
	for i := 0; i < t.RowCount(); i++ {
		nip := t.Cell(i, nipCol)
		em := NormalizeEmail(t.Cell(i, emailCol))
		if nip == "" || em == "" {
			continue
		}
		out[nip] = em
	}

	logger.Info("Email mapping built",
		zap.Int("rows", t.RowCount()),
		zap.Int("mapped", len(out)))

	return out, nil
}
