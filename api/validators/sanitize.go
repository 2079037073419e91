package validators

import (
	"strings"
	"unicode/utf8"
)

const MaxQueryLength = 100

// SanitizeString trims input and cuts it to maxLen bytes without splitting a
// rune.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen]
		for len(trimmed) > 0 && !utf8.ValidString(trimmed) {
			trimmed = trimmed[:len(trimmed)-1]
		}
	}
	return trimmed
}
