package excel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var noPropRe = regexp.MustCompile(`^NoProp(\d+)$`)

// RequiredIdentityColumns are the columns every main sheet must carry.
var RequiredIdentityColumns = []string{"NIP", "Nama", "Fakultas", "Norek"}

// DetectMaxN returns the schema width: the highest i for which a
// NoProp{i} column exists. Gaps are fine; the per-row decode checks
// every slot 1..max and treats absent ones as empty.
func DetectMaxN(t *Table) (int, error) {
	max := 0
	for _, h := range t.Headers() {
		m := noPropRe.FindStringSubmatch(h)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return 0, ErrNoItemGroups
	}
	return max, nil
}

// SlotColumns returns the four indexed headers of slot i.
func SlotColumns(i int) (noProp, judul, skema, dana string) {
	return fmt.Sprintf("NoProp%d", i),
		fmt.Sprintf("Judul%d", i),
		fmt.Sprintf("Skema%d", i),
		fmt.Sprintf("Jumlah_dana%d", i)
}

// ValidateRequired checks the structural preconditions for a batch, in
// order: identity columns, at least one item-group, and (when
// requireEmail is set) an email column. It returns pass/fail plus a
// human-readable reason; a failure here aborts the whole batch before
// any generation side effect.
func ValidateRequired(t *Table, requireEmail bool) (bool, string) {
	var missing []string
	for _, c := range RequiredIdentityColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("Kolom wajib tidak ditemukan: [%s]", strings.Join(missing, ", "))
	}

	if _, err := DetectMaxN(t); err != nil {
		return false, "Format Excel tidak sesuai: tidak ada kolom NoProp1/NoProp2/..."
	}

	if requireEmail && t.EmailColumn() == "" {
		return false, "Mode email aktif tapi kolom Email tidak ada. Tambahkan Email atau upload mapping NIP→Email."
	}

	return true, "OK"
}
