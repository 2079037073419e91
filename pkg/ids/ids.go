// Package ids allocates the human-readable sequential identifiers used for
// products (P001), suppliers (S001) and transactions (T001).
package ids

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ProductPrefix     = "P"
	SupplierPrefix    = "S"
	TransactionPrefix = "T"

	width = 3
)

// Suffix returns the numeric part of id when it carries prefix.
func Suffix(prefix, id string) (int64, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(id[len(prefix):], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Next returns the identifier following the highest suffix in existing. Ids
// that do not belong to the family are ignored.
func Next(prefix string, existing []string) (string, int64) {
	var highest int64
	for _, id := range existing {
		if n, ok := Suffix(prefix, id); ok && n > highest {
			highest = n
		}
	}
	return Format(prefix, highest+1), highest + 1
}

// Format zero-pads n to three digits behind prefix.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}
