package cart

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseQuantity reads a quantity typed into the register the way a browser
// number field is read: leading digits count, anything unparsable or below
// one becomes 1, and anything above MaxQuantity becomes MaxQuantity.
func ParseQuantity(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		if s[0] == '-' {
			return 1
		}
		return MaxQuantity
	}
	return clampQuantity(n)
}
